package app

import (
	"gorm.io/gorm"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/repos"
)

type Repos struct {
	Post              repos.PostRepo
	TranscriptSegment repos.TranscriptSegmentRepo
	Identification    repos.IdentificationRepo
	SegmentOverride   repos.SegmentOverrideRepo
	ProcessingJob     repos.ProcessingJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Post:              repos.NewPostRepo(db, log),
		TranscriptSegment: repos.NewTranscriptSegmentRepo(db, log),
		Identification:    repos.NewIdentificationRepo(db, log),
		SegmentOverride:   repos.NewSegmentOverrideRepo(db, log),
		ProcessingJob:     repos.NewProcessingJobRepo(db, log),
	}
}
