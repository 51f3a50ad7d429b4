package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"minimap/internal/adapter/repo/gorm/model"
	"minimap/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveSlotRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSaveSlotRepo(db *gorm.DB) SaveSlotRepo {
	return SaveSlotRepo{db: db, now: time.Now}
}

func (r SaveSlotRepo) Save(ctx context.Context, slot string, contents ports.SaveContents) error {
	b, err := encodeContents(contents)
	if err != nil {
		return err
	}
	now := r.now()
	row := model.SaveSlot{
		Slot:      slot,
		Contents:  b,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"contents", "updated_at"}),
	}).Create(&row).Error
}

func (r SaveSlotRepo) Load(ctx context.Context, slot string) (ports.SaveContents, error) {
	var row model.SaveSlot
	err := r.db.WithContext(ctx).
		Where(&model.SaveSlot{Slot: slot}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return decodeContents(row.Contents)
}

func encodeContents(c ports.SaveContents) ([]byte, error) {
	if c == nil {
		c = ports.SaveContents{}
	}
	return json.Marshal(c)
}

func decodeContents(data []byte) (ports.SaveContents, error) {
	out := ports.SaveContents{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
