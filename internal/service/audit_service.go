package service

import (
	"strings"
	"time"

	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"gorm.io/gorm"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	Actor      Actor
	MerchantID uint
	Action     string
	EntityType string
	EntityID   uint
	RequestID  string
	NewValues  models.JSON
}

// AuditService 操作审计服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录审计日志
func (s *AuditService) Record(input AuditRecordInput) error {
	return s.record(nil, input)
}

// RecordTx 在事务内记录审计日志
func (s *AuditService) RecordTx(tx *gorm.DB, input AuditRecordInput) error {
	return s.record(tx, input)
}

func (s *AuditService) record(tx *gorm.DB, input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Actor.UserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}

	entry := &models.AuditLog{
		ActorUserID: input.Actor.UserID,
		ActorEmail:  strings.TrimSpace(input.Actor.Email),
		MerchantID:  input.MerchantID,
		Action:      strings.TrimSpace(input.Action),
		EntityType:  strings.TrimSpace(input.EntityType),
		EntityID:    input.EntityID,
		RequestID:   strings.TrimSpace(input.RequestID),
		NewValues:   input.NewValues,
		CreatedAt:   time.Now(),
	}
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	return repo.Create(entry)
}

// List 查询审计日志
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
