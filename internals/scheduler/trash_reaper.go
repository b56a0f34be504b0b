package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	authRepo "schoolku_backend/internals/features/users/auth/repository"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/blob"
)

// target is a soft-deleted table the reaper purges.
type target struct {
	Table    string
	Col      string // deleted-at column
	PhotoCol string // optional, photo URL removed from storage before the row goes
	Links    string // optional, SQL run first to drop rows referencing the purged ones
}

var targets = []target{
	{
		Table:    "students",
		Col:      "student_deleted_at",
		PhotoCol: "student_photo_url",
		Links: `DELETE FROM student_parents WHERE student_parent_student_id IN
			(SELECT student_id FROM students WHERE student_deleted_at IS NOT NULL AND student_deleted_at < ?)`,
	},
	{
		Table:    "parents",
		Col:      "parent_deleted_at",
		PhotoCol: "parent_photo_url",
		Links: `DELETE FROM student_parents WHERE student_parent_parent_id IN
			(SELECT parent_id FROM parents WHERE parent_deleted_at IS NOT NULL AND parent_deleted_at < ?)`,
	},
	{Table: "teachers", Col: "teacher_deleted_at", PhotoCol: "teacher_photo_url"},
	{Table: "courses", Col: "course_deleted_at"},
	{Table: "rooms", Col: "room_deleted_at"},
	{Table: "departments", Col: "department_deleted_at"},
}

// Reaper hard-deletes rows that stayed in the trash longer than Retention,
// together with expired tokens.
type Reaper struct {
	DB        *gorm.DB
	Storage   blob.Service // nil skips photo cleanup
	Retention time.Duration
	Now       func() time.Time
}

// Report counts what one run removed.
type Report struct {
	Rows          map[string]int64
	Photos        int
	Blacklisted   int64
	RefreshTokens int64
}

func NewReaper(db *gorm.DB, storage blob.Service, retentionDays int) *Reaper {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Reaper{
		DB:        db,
		Storage:   storage,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		Now:       time.Now,
	}
}

// Start schedules Run on cfg.ReaperCron. Overlapping runs are skipped.
func Start(db *gorm.DB, storage blob.Service, cfg configs.Config) (*cron.Cron, error) {
	r := NewReaper(db, storage, cfg.RetentionDays)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.ReaperCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		rep, err := r.Run(ctx)
		if err != nil {
			log.Printf("[CLEANUP] run failed: %v", err)
			return
		}
		log.Printf("[CLEANUP] done rows=%v photos=%d blacklist=%d refresh=%d",
			rep.Rows, rep.Photos, rep.Blacklisted, rep.RefreshTokens)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reaper %q: %w", cfg.ReaperCron, err)
	}
	c.Start()
	log.Printf("[CLEANUP] scheduled %q retention=%s", cfg.ReaperCron, r.Retention)
	return c, nil
}

// Run performs one cleanup pass. A failing table is logged and skipped so the
// other tables still get purged; the first such error is returned.
func (r *Reaper) Run(ctx context.Context) (Report, error) {
	cutoff := r.Now().Add(-r.Retention)
	rep := Report{Rows: make(map[string]int64, len(targets))}
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, t := range targets {
		n, photos, err := r.purge(ctx, t, cutoff)
		rep.Photos += photos
		if err != nil {
			log.Printf("[CLEANUP] %s: %v", t.Table, err)
			keep(err)
			continue
		}
		rep.Rows[t.Table] = n
	}

	n, err := helperAuth.PurgeExpired(ctx, r.DB)
	if err != nil {
		log.Printf("[CLEANUP] token_blacklist: %v", err)
		keep(err)
	}
	rep.Blacklisted = n

	n, err = authRepo.PurgeRefreshTokens(ctx, r.DB, r.Now())
	if err != nil {
		log.Printf("[CLEANUP] refresh_tokens: %v", err)
		keep(err)
	}
	rep.RefreshTokens = n

	return rep, firstErr
}

func (r *Reaper) purge(ctx context.Context, t target, cutoff time.Time) (int64, int, error) {
	db := r.DB.WithContext(ctx)
	where := fmt.Sprintf("%s IS NOT NULL AND %s < ?", t.Col, t.Col)

	photos := 0
	if t.PhotoCol != "" && r.Storage != nil {
		var urls []string
		q := fmt.Sprintf("SELECT %s FROM %s WHERE %s AND %s IS NOT NULL", t.PhotoCol, t.Table, where, t.PhotoCol)
		if err := db.Raw(q, cutoff).Scan(&urls).Error; err != nil {
			return 0, 0, fmt.Errorf("list photos: %w", err)
		}
		for _, u := range urls {
			if err := r.Storage.DeleteByURL(ctx, u); err != nil {
				log.Printf("[CLEANUP] %s: delete %s: %v", t.Table, u, err)
				continue
			}
			photos++
		}
	}

	if t.Links != "" {
		if err := db.Exec(t.Links, cutoff).Error; err != nil {
			return 0, photos, fmt.Errorf("unlink: %w", err)
		}
	}

	res := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", t.Table, where), cutoff)
	if res.Error != nil {
		return 0, photos, res.Error
	}
	return res.RowsAffected, photos, nil
}
