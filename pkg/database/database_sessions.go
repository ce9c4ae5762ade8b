package database

import (
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
)

func sessionsBucketName() []byte {
	return []byte("sessions")
}

func sessionsKeyName(id string) []byte {
	return []byte("session-" + id)
}

// Session - an authenticated user, the cookie only carries the id
type Session struct {
	ID          string              `json:"id"`
	Scheme      string              `json:"scheme"`
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	TokenExpiry time.Time           `json:"token_expiry"`
	Region      blizzard.RegionName `json:"region"`
	BattleTag   string              `json:"battletag"`
	CreatedAt   time.Time           `json:"created_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// IsExpired - a session expires with itself or with its access token
func (s Session) IsExpired(now time.Time) bool {
	if !s.ExpiresAt.After(now) {
		return true
	}

	return !s.TokenExpiry.IsZero() && !s.TokenExpiry.After(now)
}

// PersistSession writes a session, replacing any with the same id
func (d Database) PersistSession(s Session) error {
	if s.ID == "" {
		return errors.New("session id cannot be blank")
	}

	encoded, err := encodeRecord(s)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(sessionsBucketName())
		if err != nil {
			return err
		}

		return bkt.Put(sessionsKeyName(s.ID), encoded)
	})
}

// GetSession finds an unexpired session, ErrNotFound otherwise
func (d Database) GetSession(id string, now time.Time) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}

	out := Session{}
	err := d.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(sessionsBucketName())
		if bkt == nil {
			return ErrNotFound
		}

		value := bkt.Get(sessionsKeyName(id))
		if value == nil {
			return ErrNotFound
		}

		return decodeRecord(value, &out)
	})
	if err != nil {
		return Session{}, err
	}

	if out.IsExpired(now) {
		return Session{}, ErrNotFound
	}

	return out, nil
}

// DeleteSession removes a session, deleting a missing session is not an error
func (d Database) DeleteSession(id string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(sessionsBucketName())
		if bkt == nil {
			return nil
		}

		return bkt.Delete(sessionsKeyName(id))
	})
}
