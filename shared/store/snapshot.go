// Package store guarda fotos do registro de landmarks em SQLite, um banco
// por mundo em saves/<mundo>.lv.
package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"LandmarkVision/shared/landmark"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LandmarkModel é o esquema do banco para um landmark.
type LandmarkModel struct {
	ID          string `gorm:"primaryKey"`
	Seq         int    `gorm:"index"` // Ordem de registro
	DisplayName string
	Type        string  `gorm:"index"`
	X, Y        float64 `gorm:"index:idx_pos"`
	HeightMin   float64
	HeightMax   float64
	OffsetX     float64
	OffsetY     float64
	OffsetZ     float64
	Value       int32
	UpdatedAt   time.Time
}

// WorldMetadata armazena informações globais do mundo no banco.
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// Snapshot é o banco SQLite de um mundo.
type Snapshot struct {
	DB   *gorm.DB
	Path string
}

// PathForWorld retorna o caminho do banco de um mundo.
func PathForWorld(dir, worldName string) string {
	if worldName == "" {
		worldName = "Default"
	}
	return filepath.Join(dir, fmt.Sprintf("%s.lv", worldName))
}

// Open abre (ou cria) o banco do mundo e roda as migrações.
func Open(dir, worldName string) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := PathForWorld(dir, worldName)

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&LandmarkModel{}, &WorldMetadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	db.Save(&WorldMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})
	db.Save(&WorldMetadata{Key: "WorldName", Value: worldName})

	log.Printf("[Persistence] Banco de dados SQLite aberto: %s", dbPath)
	return &Snapshot{DB: db, Path: dbPath}, nil
}

// Close fecha a conexão com o banco.
func (s *Snapshot) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(rec landmark.Record, seq int) LandmarkModel {
	return LandmarkModel{
		ID:          rec.ID,
		Seq:         seq,
		DisplayName: rec.DisplayName,
		Type:        rec.Type,
		X:           rec.Position.X,
		Y:           rec.Position.Y,
		HeightMin:   rec.HeightMin,
		HeightMax:   rec.HeightMax,
		OffsetX:     rec.VisualOffset.X,
		OffsetY:     rec.VisualOffset.Y,
		OffsetZ:     rec.VisualOffset.Z,
		Value:       rec.Value,
	}
}

func (m LandmarkModel) record() landmark.Record {
	return landmark.Record{
		ID:           m.ID,
		DisplayName:  m.DisplayName,
		Type:         m.Type,
		Position:     landmark.Position{X: m.X, Y: m.Y},
		HeightMin:    m.HeightMin,
		HeightMax:    m.HeightMax,
		VisualOffset: landmark.Vec3{X: m.OffsetX, Y: m.OffsetY, Z: m.OffsetZ},
		Value:        m.Value,
	}
}

// Save substitui a foto inteira pelos registros informados (em uma transação).
func (s *Snapshot) Save(records []landmark.Record) error {
	models := make([]LandmarkModel, 0, len(records))
	for i, rec := range records {
		models = append(models, toModel(rec, i))
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&LandmarkModel{}).Error; err != nil {
			return err
		}
		if len(models) > 0 {
			if err := tx.CreateInBatches(models, 500).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&WorldMetadata{Key: "SavedAt", Value: time.Now().Format(time.RFC3339)}).Error; err != nil {
			return err
		}
		return tx.Save(&WorldMetadata{Key: "Count", Value: fmt.Sprint(len(models))}).Error
	})
	if err != nil {
		log.Printf("[Persistence] ERRO ao salvar snapshot: %v", err)
		return fmt.Errorf("salvar snapshot: %w", err)
	}
	log.Printf("[Persistence] Snapshot salvo: %d landmarks em %s", len(models), s.Path)
	return nil
}

// Load retorna os registros na ordem de registro original.
func (s *Snapshot) Load() ([]landmark.Record, error) {
	var models []LandmarkModel
	if err := s.DB.Order("seq").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("carregar snapshot: %w", err)
	}
	out := make([]landmark.Record, 0, len(models))
	for _, m := range models {
		out = append(out, m.record())
	}
	return out, nil
}

// Count retorna quantos landmarks estão persistidos.
func (s *Snapshot) Count() (int64, error) {
	var count int64
	err := s.DB.Model(&LandmarkModel{}).Count(&count).Error
	return count, err
}

// ByType lista os landmarks de um tipo.
func (s *Snapshot) ByType(typeName string) ([]landmark.Record, error) {
	var models []LandmarkModel
	if err := s.DB.Where("type = ?", typeName).Order("seq").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]landmark.Record, 0, len(models))
	for _, m := range models {
		out = append(out, m.record())
	}
	return out, nil
}

// Meta lê um valor de metadados.
func (s *Snapshot) Meta(key string) (string, bool) {
	var meta WorldMetadata
	if err := s.DB.Where(&WorldMetadata{Key: key}).First(&meta).Error; err != nil {
		return "", false
	}
	return meta.Value, true
}
