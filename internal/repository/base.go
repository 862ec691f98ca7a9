// Package repository provides data access layer implementations for the application.
package repository

import (
	"fmt"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// resourceTables maps a resource type to the table carrying its counter
// columns. Every registered resource must appear here.
var resourceTables = map[models.ResourceType]string{
	models.ResourcePost:  "posts",
	models.ResourcePhoto: "photos",
	models.ResourceVideo: "videos",
}

func resourceTable(rt models.ResourceType) (string, error) {
	table, ok := resourceTables[rt]
	if !ok {
		return "", fmt.Errorf("unknown resource type %q", rt)
	}
	return table, nil
}

// adjustCounter applies an atomic delta to a counter column on a resource row.
// Decrements are guarded so a counter never goes below zero, even if a
// mismatched decrement sneaks through the service layer.
func adjustCounter(tx *gorm.DB, rt models.ResourceType, id uint, field models.CounterField, delta int) error {
	table, err := resourceTable(rt)
	if err != nil {
		return err
	}
	q := tx.Table(table).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(fmt.Sprintf("%s > 0", field))
	}
	return q.UpdateColumn(string(field), gorm.Expr(fmt.Sprintf("%s + ?", field), delta)).Error
}

// applySort orders a query by a column from the caller's allow-list. Columns
// outside the list fall back to created_at so user input never reaches SQL
// unchecked.
func applySort(q *gorm.DB, req models.PageRequest, allowed map[string]bool) *gorm.DB {
	column := "created_at"
	if allowed[req.SortBy] {
		column = req.SortBy
	}
	return q.Order(fmt.Sprintf("%s %s", column, req.SortOrder.Normalize()))
}

// paginate counts the full result set, then fetches one sorted page into
// dest. The count runs on a fresh session so it does not pollute the page
// query's statement.
func paginate(q *gorm.DB, req models.PageRequest, allowed map[string]bool, dest any) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	err := applySort(q, req, allowed).
		Limit(req.Limit).
		Offset(req.Offset()).
		Find(dest).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
