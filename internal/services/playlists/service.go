package playlists

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/dashboards"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/killallgit/playlist-api/pkg/logger"
	"gorm.io/gorm"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	db       *gorm.DB
	repo     Repository
	registry *dashboards.Registry
	log      *logger.Logger

	mu       sync.Mutex
	shuffler Shuffler
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*ServiceImpl)

// WithShuffler sets the random source used to order partitions
func WithShuffler(sh Shuffler) ServiceOption {
	return func(s *ServiceImpl) {
		if sh != nil {
			s.shuffler = sh
		}
	}
}

// WithSeed seeds the default random source. Zero keeps the time seed.
func WithSeed(seed int64) ServiceOption {
	return func(s *ServiceImpl) {
		if seed != 0 {
			s.shuffler = rand.New(rand.NewSource(seed))
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *logger.Logger) ServiceOption {
	return func(s *ServiceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a new playlist service over the families in registry
func NewService(db *gorm.DB, repo Repository, registry *dashboards.Registry, opts ...ServiceOption) *ServiceImpl {
	if registry == nil {
		registry = dashboards.DefaultRegistry()
	}
	s := &ServiceImpl{
		db:       db,
		repo:     repo,
		registry: registry,
		log:      logger.Nop(),
		shuffler: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePlaylist regenerates one family's playlist in its own transaction
func (s *ServiceImpl) GeneratePlaylist(ctx context.Context, keyword string) (*GenerateResult, error) {
	if _, err := s.registry.Lookup(keyword); err != nil {
		return nil, err
	}

	var result *GenerateResult
	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		var err error
		result, err = s.GenerateTx(dbc, keyword)
		return err
	})
	if err != nil {
		return nil, apperrors.TransactionError("generate playlist "+keyword, err)
	}
	return result, nil
}

// GenerateTx reads the family's partitions from dbc, generates a new
// playlist and replaces the stored one.
func (s *ServiceImpl) GenerateTx(dbc dbctx.Context, keyword string) (*GenerateResult, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}

	var parts [3][]Item
	for i, p := range family.Partitions {
		entries, err := s.repo.ListPartition(dbc, family.Keyword, p.Name)
		if err != nil {
			return nil, err
		}
		parts[i] = toItems(entries)
	}

	s.mu.Lock()
	generated, fallback := Generate(parts[0], parts[1], parts[2], s.shuffler)
	s.mu.Unlock()

	entries := make([]models.PlaylistEntry, 0, len(generated))
	skipped := 0
	for _, it := range generated {
		if it.VideoRef == 0 {
			skipped++
			s.log.Warn("skipping playlist entry without video link",
				"family", family.Keyword,
				"video_id", it.VideoID,
				"ordinal", it.Ordinal)
			continue
		}
		entries = append(entries, models.PlaylistEntry{
			Family:       family.Keyword,
			Ordinal:      len(entries) + 1,
			Partition:    it.Partition,
			VideoRef:     it.VideoRef,
			VideoID:      it.VideoID,
			Title:        it.Title,
			ChannelID:    it.ChannelID,
			TypeName:     it.TypeName,
			CategoryName: it.CategoryName,
		})
	}

	if err := s.repo.ReplacePlaylist(dbc, family.Keyword, entries); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Family:     family.Keyword,
		EntryCount: len(entries),
		Fallback:   fallback,
		Skipped:    skipped,
	}
	if fallback {
		s.log.Warn("primary partition empty, playlist built from secondary and tertiary",
			"family", family.Keyword,
			"entries", result.EntryCount)
	} else {
		s.log.Info("playlist generated", "family", family.Keyword, "entries", result.EntryCount)
	}
	return result, nil
}

// GenerateAll regenerates every registered family inside dbc
func (s *ServiceImpl) GenerateAll(dbc dbctx.Context) ([]*GenerateResult, error) {
	families := s.registry.Families()
	results := make([]*GenerateResult, 0, len(families))
	for _, f := range families {
		res, err := s.GenerateTx(dbc, f.Keyword)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ListPlaylist returns the stored playlist of a family
func (s *ServiceImpl) ListPlaylist(ctx context.Context, keyword string) ([]models.PlaylistEntry, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPlaylist(dbctx.New(ctx), family.Keyword)
}

func toItems(entries []models.PartitionEntry) []Item {
	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = Item{
			Partition:    e.Partition,
			VideoRef:     e.VideoRef,
			VideoID:      e.VideoID,
			Title:        e.Title,
			ChannelID:    e.ChannelID,
			TypeName:     e.TypeName,
			CategoryName: e.CategoryName,
		}
	}
	return out
}
