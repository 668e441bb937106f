// Package testutil provides an in-memory database and seed helpers for
// package tests.
package testutil

import (
	"testing"

	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database with foreign keys on.
// The pool holds a single connection, so any query issued outside an open
// transaction while that transaction is running will block.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.Initialize(":memory:", false)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db.DB
}

// VideoSeed describes a video to insert with its joined rows.
type VideoSeed struct {
	VideoID      string
	ChannelID    string
	Title        string
	Type         string
	Category     string
	PlaylistID   string
	PlaylistName string
	Visibility   string
	Inactive     bool
	Detail       *models.VideoDetail

	// Labels defaults to the labels implied by the other fields: any type,
	// category or non-default detail value given counts as present.
	Labels models.Labels
}

// SeedVideo inserts a video, creating its type, category and playlist on
// demand.
func SeedVideo(tb testing.TB, db *gorm.DB, s VideoSeed) *models.Video {
	tb.Helper()

	if s.ChannelID == "" {
		s.ChannelID = "C1"
	}
	if s.Labels == 0 {
		s.Labels = impliedLabels(s)
	}
	if s.Type == "" {
		s.Type = models.DefaultType
	}
	if s.Category == "" {
		s.Category = models.DefaultCategory
	}

	typ := models.Type{Name: s.Type}
	must(tb, db.Where(models.Type{Name: s.Type}).FirstOrCreate(&typ).Error)

	cat := models.Category{Name: s.Category, TypeID: typ.ID}
	must(tb, db.Where(models.Category{Name: s.Category}).Attrs(models.Category{TypeID: typ.ID}).FirstOrCreate(&cat).Error)

	video := models.Video{
		VideoID:    s.VideoID,
		ChannelID:  s.ChannelID,
		Title:      s.Title,
		Visibility: s.Visibility,
		TypeID:     typ.ID,
		CategoryID: cat.ID,
		IsActive:   !s.Inactive,
		Labels:     s.Labels,
	}

	if s.PlaylistID != "" {
		pl := models.Playlist{PlaylistID: s.PlaylistID, Name: s.PlaylistName}
		must(tb, db.Where(models.Playlist{PlaylistID: s.PlaylistID}).Attrs(models.Playlist{Name: s.PlaylistName}).FirstOrCreate(&pl).Error)
		video.PlaylistRef = &pl.ID
	}

	must(tb, db.Create(&video).Error)

	if s.Detail != nil {
		s.Detail.VideoRef = video.ID
		must(tb, db.Create(s.Detail).Error)
	}
	return &video
}

func impliedLabels(s VideoSeed) models.Labels {
	var l models.Labels
	if s.Type != "" {
		l |= models.LabelType
	}
	if s.Category != "" {
		l |= models.LabelCategory
	}
	if d := s.Detail; d != nil {
		if d.Orator != "" && d.Orator != models.DefaultOrator {
			l |= models.LabelOrator
		}
		if d.TrackNumber != 0 {
			l |= models.LabelTrack
		}
		if d.SourceWork != "" && d.SourceWork != models.DefaultSourceWork {
			l |= models.LabelSourceWork
		}
	}
	return l
}

func must(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("seed: %v", err)
	}
}
