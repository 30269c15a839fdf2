package service

import (
	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
)

// QCService runs quality checks on localized content. The current scorer is a
// deterministic stub behind a clean seam for deterministic checks
// (placeholders, tags, numbers) or LLM evaluation.
type QCService struct {
	modelName string
}

func NewQCService() *QCService {
	return &QCService{modelName: "stub"}
}

func (s *QCService) Run(sourceContent, translatedContent map[string]any) api.QcReport {
	score := 95.0
	model := s.modelName
	return api.QcReport{
		Passed: true,
		Score:  &score,
		Issues: []api.QcIssue{},
		Model:  &model,
	}
}
