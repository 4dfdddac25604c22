// internal/service/audit_test.go
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordCryptoDisabled_WritesAuditRow(t *testing.T) {
	db := setupServiceDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := RecordCryptoDisabled(context.Background(), db, repository.NewGormSecurityEventRepository(), logger)
	require.NoError(t, err)

	var events []model.SecurityEvent
	require.NoError(t, db.Where("kind = ?", model.SecurityEventCryptoDisabled).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, uuid.Nil, events[0].UserID)
	assert.Nil(t, events[0].JourneyID)
	assert.Equal(t, "no_key_configured", events[0].Reason)
	assert.WithinDuration(t, time.Now(), events[0].CreatedAt, 5*time.Second)
}

func TestRecordCryptoDisabled_PropagatesWriteFailure(t *testing.T) {
	db := setupServiceDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	secRepo := new(mocks.SecurityEventRepository)
	secRepo.On("Create", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.SecurityEvent")).
		Return(errors.New("audit table locked")).Once()

	err := RecordCryptoDisabled(context.Background(), db, secRepo, logger)
	assert.Error(t, err)
	secRepo.AssertExpectations(t)
}
