package model

import (
	"fmt"
	"time"
)

// RiskAnalysisHistory records one statement analysis made by a signed-in user.
// Result holds the JSON-encoded StatementSummary.
type RiskAnalysisHistory struct {
	id        int64
	userID    int64
	filename  string
	result    string
	createdAt time.Time
}

// NewRiskAnalysisHistory creates an unsaved history entry. Filenames longer
// than MaxFilenameLength are cut.
func NewRiskAnalysisHistory(userID int64, filename, result string, now time.Time) (RiskAnalysisHistory, error) {
	if userID <= 0 {
		return RiskAnalysisHistory{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return RiskAnalysisHistory{
		userID:    userID,
		filename:  clampRunes(filename, MaxFilenameLength),
		result:    result,
		createdAt: now,
	}, nil
}

// ReconstructRiskAnalysisHistory rebuilds an entry from persistence.
func ReconstructRiskAnalysisHistory(id, userID int64, filename, result string, createdAt time.Time) RiskAnalysisHistory {
	return RiskAnalysisHistory{
		id:        id,
		userID:    userID,
		filename:  filename,
		result:    result,
		createdAt: createdAt,
	}
}

func (h RiskAnalysisHistory) ID() int64            { return h.id }
func (h RiskAnalysisHistory) UserID() int64        { return h.userID }
func (h RiskAnalysisHistory) Filename() string     { return h.filename }
func (h RiskAnalysisHistory) Result() string       { return h.result }
func (h RiskAnalysisHistory) CreatedAt() time.Time { return h.createdAt }
