package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Option names
const (
	KeyDatabase = "api_database"
	KeyUsername = "api_username"
	KeyPassword = "api_password"
	KeySiteID   = "id_site"
	KeyDebug    = "debug"
)

const encryptedPrefix = "enc:"

// Store keeps runtime settings in the options table. Stored values take
// precedence over the environment.
type Store struct {
	db  *database.DB
	key []byte
}

// NewStore creates a settings store; an empty encKeyHex stores secrets in
// plain text.
func NewStore(db *database.DB, encKeyHex string) (*Store, error) {
	s := &Store{db: db}
	if encKeyHex != "" {
		key, err := utils.ParseEncKey(encKeyHex)
		if err != nil {
			return nil, err
		}
		s.key = key
	} else {
		log.Println("⚠️  ENC_KEY not set, ERP password will be stored unencrypted")
	}
	return s, nil
}

// Update is a partial settings change; nil fields are left untouched
type Update struct {
	Database *string `json:"api_database"`
	Username *string `json:"api_username"`
	Password *string `json:"api_password"`
	SiteID   *string `json:"id_site"`
	Debug    *bool   `json:"debug"`
}

// Get returns one option value
func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	var opt models.Option
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read option %s: %w", name, err)
	}
	return opt.Value, true, nil
}

// Set writes one option value
func (s *Store) Set(ctx context.Context, name, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Option{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to write option %s: %w", name, err)
	}
	return nil
}

// Apply stores the non-nil fields of u. An empty password keeps the
// stored one, as the settings form never echoes it back.
func (s *Store) Apply(ctx context.Context, u Update) error {
	plain := map[string]*string{
		KeyDatabase: u.Database,
		KeyUsername: u.Username,
		KeySiteID:   u.SiteID,
	}
	for name, v := range plain {
		if v == nil {
			continue
		}
		if err := s.Set(ctx, name, strings.TrimSpace(*v)); err != nil {
			return err
		}
	}

	if u.Password != nil && *u.Password != "" && *u.Password != config.PasswordMask {
		stored, err := s.seal(*u.Password)
		if err != nil {
			return err
		}
		if err := s.Set(ctx, KeyPassword, stored); err != nil {
			return err
		}
	}

	if u.Debug != nil {
		if err := s.Set(ctx, KeyDebug, strconv.FormatBool(*u.Debug)); err != nil {
			return err
		}
	}
	return nil
}

// Resolve overlays stored options on base
func (s *Store) Resolve(ctx context.Context, base config.BizzioConfig) (config.BizzioConfig, error) {
	var opts []models.Option
	if err := s.db.WithContext(ctx).Find(&opts).Error; err != nil {
		return base, fmt.Errorf("failed to read options: %w", err)
	}

	cfg := base
	for _, o := range opts {
		switch o.Name {
		case KeyDatabase:
			cfg.Database = o.Value
		case KeyUsername:
			cfg.Username = o.Value
		case KeySiteID:
			cfg.SiteID = o.Value
		case KeyDebug:
			cfg.Debug = o.Value == "true"
		case KeyPassword:
			password, err := s.open(o.Value)
			if err != nil {
				return base, err
			}
			cfg.Password = password
		}
	}
	return cfg, nil
}

// DeleteAll removes every option
func (s *Store) DeleteAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Option{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	return nil
}

func (s *Store) seal(value string) (string, error) {
	if s.key == nil {
		return value, nil
	}
	sealed, err := utils.EncryptString(s.key, value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt setting: %w", err)
	}
	return encryptedPrefix + sealed, nil
}

func (s *Store) open(value string) (string, error) {
	if !strings.HasPrefix(value, encryptedPrefix) {
		return value, nil
	}
	if s.key == nil {
		return "", errors.New("stored ERP password is encrypted but ENC_KEY is not set")
	}
	plain, err := utils.DecryptString(s.key, strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt ERP password: %w", err)
	}
	return plain, nil
}
