package processing

import (
	"time"
	"yatube/db"
	"yatube/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// GracePeriod protects images that were just uploaded and not yet attached to a post
const GracePeriod = time.Hour

// CleanupOrphanImages deletes images created before the given time that no post references.
// Stored files go first, then the rows. It returns how many images were removed.
func CleanupOrphanImages(before time.Time) (int, error) {
	var orphans []models.Image
	err := db.Instance.
		Preload("Bucket").
		Where("created_at < ? AND id NOT IN (?)", before.Unix(),
			db.Instance.Model(&models.Post{}).Select("image_id").Where("image_id IS NOT NULL")).
		Order("id ASC").
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range orphans {
		if err = orphans[i].Delete(); err != nil {
			log.Error().Err(err).Str("image", orphans[i].Key).Msg("Cannot delete orphan image")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("Orphan images removed")
	}
	return removed, nil
}

// Start runs the cleanup on schedule (cron spec or @every) in the background
func Start(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	_, err := c.AddFunc(schedule, func() {
		if _, err := CleanupOrphanImages(time.Now().Add(-GracePeriod)); err != nil {
			log.Error().Err(err).Msg("Orphan image cleanup failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
