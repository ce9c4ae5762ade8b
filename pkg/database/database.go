package database

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/util"
)

// ErrNotFound - the requested record does not exist or has expired
var ErrNotFound = errors.New("record not found")

// NewDatabase - opens or creates the sessions database at a file path
func NewDatabase(dbFilepath string) (Database, error) {
	if err := util.EnsureParentDir(dbFilepath); err != nil {
		return Database{}, err
	}

	logging.WithField("filepath", dbFilepath).Info("Initializing sessions database")

	db, err := bolt.Open(dbFilepath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return Database{}, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{sessionsBucketName(), pendingLoginsBucketName()} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		db.Close()

		return Database{}, err
	}

	return Database{db}, nil
}

// Database - bolt-backed store of sessions and pending logins
type Database struct {
	db *bolt.DB
}

// Close releases the database file
func (d Database) Close() error {
	return d.db.Close()
}

func encodeRecord(v interface{}) ([]byte, error) {
	jsonEncoded, err := json.Marshal(v)
	if err != nil {
		return []byte{}, err
	}

	return util.GzipEncode(jsonEncoded)
}

func decodeRecord(data []byte, v interface{}) error {
	gzipDecoded, err := util.GzipDecode(data)
	if err != nil {
		return err
	}

	return json.Unmarshal(gzipDecoded, v)
}

// PruneResult - counts of records removed by a prune
type PruneResult struct {
	Sessions      int
	PendingLogins int
}

// PruneExpired deletes every session and pending login that has expired by now
func (d Database) PruneExpired(now time.Time) (PruneResult, error) {
	out := PruneResult{}

	err := d.db.Update(func(tx *bolt.Tx) error {
		sessions, err := pruneBucket(tx.Bucket(sessionsBucketName()), func(v []byte) (bool, error) {
			s := Session{}
			if err := decodeRecord(v, &s); err != nil {
				return false, err
			}

			return s.IsExpired(now), nil
		})
		if err != nil {
			return err
		}
		out.Sessions = sessions

		pendingLogins, err := pruneBucket(tx.Bucket(pendingLoginsBucketName()), func(v []byte) (bool, error) {
			p := PendingLogin{}
			if err := decodeRecord(v, &p); err != nil {
				return false, err
			}

			return p.IsExpired(now), nil
		})
		if err != nil {
			return err
		}
		out.PendingLogins = pendingLogins

		return nil
	})
	if err != nil {
		return PruneResult{}, err
	}

	return out, nil
}

func pruneBucket(bkt *bolt.Bucket, isExpired func(v []byte) (bool, error)) (int, error) {
	if bkt == nil {
		return 0, nil
	}

	expiredKeys := [][]byte{}
	err := bkt.ForEach(func(k, v []byte) error {
		expired, err := isExpired(v)
		if err != nil {
			logging.WithField("key", string(k)).Warn("Could not decode record, pruning")

			expired = true
		}

		if !expired {
			return nil
		}

		key := make([]byte, len(k))
		copy(key, k)
		expiredKeys = append(expiredKeys, key)

		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, k := range expiredKeys {
		if err := bkt.Delete(k); err != nil {
			return 0, err
		}
	}

	return len(expiredKeys), nil
}
