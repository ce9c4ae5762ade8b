package database

import (
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
)

func pendingLoginsBucketName() []byte {
	return []byte("pending-logins")
}

func pendingLoginsKeyName(state string) []byte {
	return []byte("pending-login-" + state)
}

// PendingLogin - an issued authentication challenge awaiting its callback
type PendingLogin struct {
	State       string              `json:"state"`
	Scheme      string              `json:"scheme"`
	Region      blizzard.RegionName `json:"region"`
	RedirectURI string              `json:"redirect_uri"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// IsExpired checks the pending login against a point in time
func (p PendingLogin) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// PersistPendingLogin writes a pending login keyed by its state
func (d Database) PersistPendingLogin(p PendingLogin) error {
	if p.State == "" {
		return errors.New("pending login state cannot be blank")
	}

	encoded, err := encodeRecord(p)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(pendingLoginsBucketName())
		if err != nil {
			return err
		}

		return bkt.Put(pendingLoginsKeyName(p.State), encoded)
	})
}

// ConsumePendingLogin removes and returns the pending login for a state, a state is usable once
func (d Database) ConsumePendingLogin(state string, now time.Time) (PendingLogin, error) {
	if state == "" {
		return PendingLogin{}, ErrNotFound
	}

	out := PendingLogin{}
	err := d.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(pendingLoginsBucketName())
		if bkt == nil {
			return ErrNotFound
		}

		key := pendingLoginsKeyName(state)
		value := bkt.Get(key)
		if value == nil {
			return ErrNotFound
		}

		if err := decodeRecord(value, &out); err != nil {
			return err
		}

		return bkt.Delete(key)
	})
	if err != nil {
		return PendingLogin{}, err
	}

	if out.IsExpired(now) {
		return PendingLogin{}, ErrNotFound
	}

	return out, nil
}
