// Package cache はファイル単位の lint 結果を bbolt に保存します。
//
// キーはファイルパス、値は内容ダイジェストと結果 JSON の組です。ダイジェストが
// 一致するときだけ保存済みの結果を返すので、内容やルールが変われば自然に無効になります。
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketFiles = []byte("files")

type entry struct {
	Digest  string          `json:"digest"`
	Payload json.RawMessage `json:"payload"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store は bbolt を使った結果キャッシュです。
type Store struct {
	db *bolt.DB
}

// Open は path のデータベースを開きます（なければ作成します）。
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("cache open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache init: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Digest はルールのバージョン文字列とファイル内容から sha256 を計算します。
func Digest(version string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Load は file の保存済み結果を返します。ダイジェストが異なる場合は ok=false です。
func (s *Store) Load(file, digest string) (payload []byte, ok bool, err error) {
	var raw []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if b == nil {
			return nil
		}
		// bbolt の値はトランザクション内でのみ有効
		if v := b.Get([]byte(file)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false, err
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", file, err)
	}
	if e.Digest != digest {
		return nil, false, nil
	}
	return e.Payload, true, nil
}

// Save は file の結果を上書き保存します。payload は JSON でなければなりません。
func (s *Store) Save(file, digest string, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("cache save %s: payload is not valid JSON", file)
	}
	raw, err := json.Marshal(entry{Digest: digest, Payload: payload, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", file, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketFiles)
		if err != nil {
			return err
		}
		return b.Put([]byte(file), raw)
	})
}

// Prune は keep に含まれないエントリを削除し、削除件数を返します。
func (s *Store) Prune(keep map[string]struct{}) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if b == nil {
			return nil
		}
		var stale [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			if _, ok := keep[string(k)]; !ok {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Len は保存済みエントリ数を返します。
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketFiles); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}
