package dashboards

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/killallgit/playlist-api/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	db       *gorm.DB
	repo     Repository
	registry *Registry
	log      *logger.Logger
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*ServiceImpl)

// WithRegistry replaces the built-in families
func WithRegistry(r *Registry) ServiceOption {
	return func(s *ServiceImpl) {
		if r != nil {
			s.registry = r
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

// NewService creates a new dashboard service
func NewService(db *gorm.DB, repo Repository, opts ...ServiceOption) *ServiceImpl {
	s := &ServiceImpl{
		db:       db,
		repo:     repo,
		registry: DefaultRegistry(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the families this service refreshes
func (s *ServiceImpl) Registry() *Registry {
	return s.registry
}

// RefreshFamily rebuilds one family in its own transaction
func (s *ServiceImpl) RefreshFamily(ctx context.Context, keyword string) (*RefreshResult, error) {
	if _, err := s.registry.Lookup(keyword); err != nil {
		return nil, err
	}

	var result *RefreshResult
	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		var err error
		result, err = s.RefreshFamilyTx(dbc, keyword)
		return err
	})
	if err != nil {
		return nil, apperrors.TransactionError("refresh "+keyword, err)
	}
	return result, nil
}

// RefreshFamilyTx clears and repopulates a family's subset and partitions
// from the active videos visible in dbc.
func (s *ServiceImpl) RefreshFamilyTx(dbc dbctx.Context, keyword string) (*RefreshResult, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}

	videos, err := s.repo.ListActiveVideos(dbc)
	if err != nil {
		return nil, err
	}

	subset, parts := Build(family, videos)
	if err := s.repo.ReplaceDashboard(dbc, family.Keyword, subset); err != nil {
		return nil, err
	}
	if err := s.repo.ReplacePartitions(dbc, family.Keyword, parts); err != nil {
		return nil, err
	}

	result := &RefreshResult{
		Family:          family.Keyword,
		SubsetCount:     len(subset),
		PartitionCounts: make(map[string]int, len(family.Partitions)),
	}
	for _, p := range family.Partitions {
		result.PartitionCounts[p.Name] = 0
	}
	for _, e := range parts {
		result.PartitionCounts[e.Partition]++
	}

	s.log.Info("dashboard refreshed",
		"family", family.Keyword,
		"subset", result.SubsetCount,
		"partitions", result.PartitionCounts)
	return result, nil
}

// RefreshFamilies rebuilds every registered family inside dbc
func (s *ServiceImpl) RefreshFamilies(dbc dbctx.Context) ([]*RefreshResult, error) {
	families := s.registry.Families()
	results := make([]*RefreshResult, 0, len(families))
	for _, f := range families {
		res, err := s.RefreshFamilyTx(dbc, f.Keyword)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Build derives a family's subset and partition rows from videos, which
// must already be ordered by title. Positions are 1-based.
func Build(family *Family, videos []models.Video) ([]models.DashboardEntry, []models.PartitionEntry) {
	subset := make([]models.DashboardEntry, 0)
	parts := make([]models.PartitionEntry, 0)
	positions := [3]int{}

	for i := range videos {
		v := &videos[i]
		if !family.Member(v) {
			continue
		}
		subset = append(subset, models.DashboardEntry{
			Family:       family.Keyword,
			Position:     len(subset) + 1,
			VideoRef:     v.ID,
			VideoID:      v.VideoID,
			Title:        v.Title,
			ChannelID:    v.ChannelID,
			TypeName:     v.TypeName(),
			CategoryName: v.CategoryName(),
			SourceWork:   v.SourceWork(),
		})

		idx := family.PartitionOf(v.TypeName(), v.CategoryName())
		if idx < 0 {
			continue
		}
		positions[idx]++
		parts = append(parts, models.PartitionEntry{
			Family:       family.Keyword,
			Partition:    family.Partitions[idx].Name,
			Position:     positions[idx],
			VideoRef:     v.ID,
			VideoID:      v.VideoID,
			Title:        v.Title,
			ChannelID:    v.ChannelID,
			TypeName:     v.TypeName(),
			CategoryName: v.CategoryName(),
		})
	}
	return subset, parts
}

// ListDashboard returns one page of a family subset. A limit of -1 returns
// the whole subset.
func (s *ServiceImpl) ListDashboard(ctx context.Context, keyword string, page, limit int) (*DashboardPage, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePaging(page, limit)

	entries, total, err := s.repo.ListDashboard(dbctx.New(ctx), family.Keyword, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &DashboardPage{
		Family:  family.Keyword,
		Entries: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// ListPartition returns one page of a family partition. A limit of -1
// returns the whole partition.
func (s *ServiceImpl) ListPartition(ctx context.Context, keyword, partition string, page, limit int) (*PartitionPage, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}
	idx, ok := family.Partition(partition)
	if !ok {
		return nil, apperrors.NotFound("partition", partition).WithDetail("family", family.Keyword)
	}
	name := family.Partitions[idx].Name
	page, limit = normalizePaging(page, limit)

	entries, total, err := s.repo.ListPartition(dbctx.New(ctx), family.Keyword, name, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &PartitionPage{
		Family:    family.Keyword,
		Partition: name,
		Entries:   entries,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

// Summary reports the current subset and partition sizes without
// rebuilding anything.
func (s *ServiceImpl) Summary(ctx context.Context, keyword string) (*RefreshResult, error) {
	family, err := s.registry.Lookup(keyword)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)

	subset, err := s.repo.CountDashboard(dbc, family.Keyword)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountPartitions(dbc, family.Keyword)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		Family:          family.Keyword,
		SubsetCount:     int(subset),
		PartitionCounts: make(map[string]int, len(family.Partitions)),
	}
	for _, p := range family.Partitions {
		result.PartitionCounts[p.Name] = int(counts[p.Name])
	}
	return result, nil
}

// normalizePaging fills defaults. A negative limit means "everything".
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 0 {
		return 1, -1
	}
	return page, limit
}
