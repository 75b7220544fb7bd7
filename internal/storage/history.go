package storage

import (
	"context"
	"sort"

	"github.com/bmad-ai/bmadhub/pkg/types"
)

// keepScans bounds the scan history kept on disk.
const keepScans = 50

// SaveScan records one scan summary under scans/<id> and prunes entries
// beyond keepScans. IDs are ULIDs, so lexicographic order is creation
// order.
func (s *Storage) SaveScan(ctx context.Context, info types.SnapshotInfo) error {
	if err := s.Put(ctx, []string{"scans", info.ID}, info); err != nil {
		return err
	}
	return s.pruneScans(ctx)
}

// ScanHistory returns saved scan summaries, newest first. A limit of 0 or
// less returns everything kept.
func (s *Storage) ScanHistory(ctx context.Context, limit int) ([]types.SnapshotInfo, error) {
	ids, err := s.List(ctx, []string{"scans"})
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	records := make([]types.SnapshotInfo, 0, len(ids))
	for _, id := range ids {
		var info types.SnapshotInfo
		if err := s.Get(ctx, []string{"scans", id}, &info); err != nil {
			continue
		}
		records = append(records, info)
	}
	return records, nil
}

func (s *Storage) pruneScans(ctx context.Context) error {
	ids, err := s.List(ctx, []string{"scans"})
	if err != nil {
		return err
	}
	if len(ids) <= keepScans {
		return nil
	}
	sort.Strings(ids)
	for _, id := range ids[:len(ids)-keepScans] {
		if err := s.Delete(ctx, []string{"scans", id}); err != nil {
			return err
		}
	}
	return nil
}
