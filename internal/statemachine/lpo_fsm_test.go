package statemachine

import (
	"context"
	"testing"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLPOFSMAdvance(t *testing.T) {
	lpo := &models.LPO{Status: models.LPOStatusPending}

	err := NewLPOFSM(lpo).Advance(context.Background(), models.LPOStatusPartial)
	assert.NoError(t, err)
	assert.Equal(t, models.LPOStatusPartial, lpo.Status)

	err = NewLPOFSM(lpo).Advance(context.Background(), models.LPOStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.LPOStatusCompleted, lpo.Status)
}

func TestLPOFSMPendingStraightToCompleted(t *testing.T) {
	lpo := &models.LPO{Status: models.LPOStatusPending}

	err := NewLPOFSM(lpo).Advance(context.Background(), models.LPOStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.LPOStatusCompleted, lpo.Status)
}

func TestLPOFSMNoOp(t *testing.T) {
	lpo := &models.LPO{Status: models.LPOStatusPartial}

	err := NewLPOFSM(lpo).Advance(context.Background(), models.LPOStatusPartial)
	assert.NoError(t, err)
	assert.Equal(t, models.LPOStatusPartial, lpo.Status)
}

func TestLPOFSMNeverMovesBackwards(t *testing.T) {
	lpo := &models.LPO{Status: models.LPOStatusCompleted}

	err := NewLPOFSM(lpo).Advance(context.Background(), models.LPOStatusPending)
	assert.Error(t, err)
	assert.Equal(t, models.LPOStatusCompleted, lpo.Status)
}
