package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists to Postgres. The DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// ownedBy scopes a query to rows of the given owner.
func ownedBy(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func withEntries(db *gorm.DB) *gorm.DB {
	return db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

func withMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("joined_at ASC")
	})
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserBySecret(ctx context.Context, secretHash string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("secret_hash = ?", secretHash).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uuid.UUID, update UserUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if update.Nickname != nil {
		updates["nickname"] = *update.Nickname
	}
	if update.Avatar != nil {
		updates["avatar"] = *update.Avatar
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetUser(ctx, id)
}

// --- songs ---

func (s *GormStore) CreateSong(ctx context.Context, song *models.Song) error {
	if song.ID == uuid.Nil {
		song.ID = uuid.New()
	}
	return translate(s.db.WithContext(ctx).Create(song).Error)
}

func (s *GormStore) GetSong(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	var song models.Song
	if err := s.db.WithContext(ctx).First(&song, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &song, nil
}

func (s *GormStore) ListSongs(ctx context.Context, filter SongFilter) ([]models.Song, error) {
	q := s.db.WithContext(ctx).Model(&models.Song{})
	if filter.DemoOnly {
		q = q.Where("is_demo = ?", true)
	}
	if filter.OwnerID != nil {
		q = q.Scopes(ownedBy(*filter.OwnerID))
	}

	songs := make([]models.Song, 0)
	if err := q.Order("seq ASC").Find(&songs).Error; err != nil {
		return nil, translate(err)
	}
	return songs, nil
}

func (s *GormStore) IncrementPlays(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	result := s.db.WithContext(ctx).Model(&models.Song{}).
		Where("id = ?", id).
		UpdateColumn("plays", gorm.Expr("plays + 1"))
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetSong(ctx, id)
}

// --- playlists ---

func (s *GormStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	return translate(s.db.WithContext(ctx).Omit("Entries").Create(playlist).Error)
}

func (s *GormStore) GetPlaylist(ctx context.Context, id, ownerID uuid.UUID) (*models.Playlist, error) {
	return s.getPlaylist(s.db.WithContext(ctx), id, ownerID)
}

func (s *GormStore) getPlaylist(tx *gorm.DB, id, ownerID uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := tx.Scopes(ownedBy(ownerID), withEntries).First(&playlist, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &playlist, nil
}

func (s *GormStore) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0)
	err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), withEntries).
		Order("created_at ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, translate(err)
	}
	return playlists, nil
}

func (s *GormStore) UpdatePlaylist(ctx context.Context, id, ownerID uuid.UUID, update PlaylistUpdate) (*models.Playlist, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}

	result := s.db.WithContext(ctx).Model(&models.Playlist{}).
		Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPlaylist(ctx, id, ownerID)
}

func (s *GormStore) DeletePlaylist(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(&models.Playlist{})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("playlist_id = ?", id).Delete(&models.PlaylistSong{}).Error
	})
}

func (s *GormStore) AddPlaylistSong(ctx context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error) {
	var out *models.Playlist
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the playlist row so concurrent appends get distinct positions.
		var playlist models.Playlist
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(ownedBy(ownerID)).
			First(&playlist, "id = ?", id).Error
		if err != nil {
			return translate(err)
		}

		var next int
		if err := tx.Model(&models.PlaylistSong{}).
			Where("playlist_id = ?", id).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to compute position: %w", err)
		}

		entry := models.PlaylistSong{
			PlaylistID: id,
			SongID:     songID,
			Position:   next,
			AddedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&playlist).UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}

		out, err = s.getPlaylist(tx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) RemovePlaylistSong(ctx context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error) {
	var out *models.Playlist
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.Scopes(ownedBy(ownerID)).First(&playlist, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		result := tx.Where("playlist_id = ? AND song_id = ?", id, songID).Delete(&models.PlaylistSong{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var err error
		out, err = s.getPlaylist(tx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- rooms ---

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	now := time.Now().UTC()
	for i := range room.Members {
		room.Members[i].RoomID = room.ID
		if room.Members[i].JoinedAt.IsZero() {
			room.Members[i].JoinedAt = now
		}
	}
	// The unique index on code is the arbiter between concurrent creators.
	return translate(s.db.WithContext(ctx).Create(room).Error)
}

func (s *GormStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).Scopes(withMembers).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).Scopes(withMembers).Where("code = ?", code).First(&room).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) AddRoomMember(ctx context.Context, roomID, userID uuid.UUID) (*models.Room, error) {
	member := models.RoomMember{RoomID: roomID, UserID: userID, JoinedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.GetRoom(ctx, roomID)
}

func (s *GormStore) UpdatePlayback(ctx context.Context, roomID uuid.UUID, songID *uuid.UUID, playing bool) error {
	updates := map[string]interface{}{
		"is_playing": playing,
		"updated_at": time.Now().UTC(),
	}
	if songID != nil {
		updates["current_song_id"] = *songID
	}
	result := s.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- misc ---

func (s *GormStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &st.Users},
		{&models.Song{}, &st.Songs},
		{&models.Playlist{}, &st.Playlists},
		{&models.Room{}, &st.Rooms},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.RoomMember{},
			&models.Room{},
			&models.PlaylistSong{},
			&models.Playlist{},
			&models.Song{},
			&models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
