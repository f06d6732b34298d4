package store

import (
	"fmt"

	"github.com/k-ymmt/invoice-maker/internal/model"
)

// CreateGenerationRun 记录一次生成运行
func (s *Store) CreateGenerationRun(run model.GenerationRun) error {
	_, err := s.db.Exec(`
		INSERT INTO generation_runs (id, period, sheet_name, status, detail)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Period, run.SheetName, run.Status, run.Detail)
	if err != nil {
		return fmt.Errorf("failed to create generation run: %w", err)
	}
	return nil
}

// ListGenerationRuns 按时间倒序列出最近的运行记录
func (s *Store) ListGenerationRuns(limit int) ([]model.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, period, sheet_name, status, detail, created_at
		FROM generation_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.GenerationRun, 0, limit)
	for rows.Next() {
		var run model.GenerationRun
		if err := rows.Scan(&run.ID, &run.Period, &run.SheetName, &run.Status, &run.Detail, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
