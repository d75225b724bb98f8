package repositories

import (
	"strconv"
	"strings"

	"github.com/zidan444/blog-app/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB. Besides the
// user document it keeps email and username index keys pointing at the ID.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

func emailKey(email string) []byte {
	return []byte(UserEmailKeyPrefix + models.NormalizeEmail(email))
}

func usernameKey(username string) []byte {
	return []byte(UserNameKeyPrefix + strings.ToLower(strings.TrimSpace(username)))
}

// Create stores a new user, failing with a DuplicateError when the email or
// username is already registered.
func (r *BadgerUserRepository) Create(user *models.User) error {
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		uniques := []struct {
			field string
			key   []byte
		}{
			{"email", emailKey(user.Email)},
			{"username", usernameKey(user.Username)},
		}
		for _, u := range uniques {
			_, err := txn.Get(u.key)
			if err == nil {
				return &DuplicateError{Field: u.field}
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := putEntity(txn, userKey(id), user); err != nil {
			return err
		}
		idValue := []byte(strconv.Itoa(id))
		if err := txn.Set(emailKey(user.Email), idValue); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), idValue)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id int
		err = item.Value(func(val []byte) error {
			id, err = strconv.Atoi(string(val))
			return err
		})
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
