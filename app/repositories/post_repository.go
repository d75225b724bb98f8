package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zidan444/blog-app/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB. Writes are
// serialized in-process so read-modify-write sequences such as a like toggle
// never race each other; badger conflicts are still retried.
type BadgerPostRepository struct {
	db    *badger.DB
	mutex sync.Mutex
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		return putEntity(txn, postKey(post.ID), post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post ordered by creation time, newest first
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var post models.Post
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortNewestFirst(posts)
	return posts, nil
}

// Update overwrites the editable fields of an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		var stored models.Post
		if err := getEntity(txn, postKey(post.ID), &stored); err != nil {
			return err
		}

		stored.Title = post.Title
		stored.Content = post.Content
		stored.Image = post.Image
		stored.Categories = post.Categories
		stored.Touch()
		if err := stored.Validate(); err != nil {
			return err
		}
		if err := putEntity(txn, postKey(stored.ID), &stored); err != nil {
			return err
		}
		*post = stored
		return nil
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

// ToggleLike flips userID's membership in the post's like set inside a single
// transaction. It returns the updated post and whether it is now liked.
func (r *BadgerPostRepository) ToggleLike(postID, userID int) (*models.Post, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var (
		post  models.Post
		liked bool
	)
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(postID), &post); err != nil {
			return err
		}
		liked = post.ToggleLike(userID)
		post.Touch()
		return putEntity(txn, postKey(postID), &post)
	})
	if err != nil {
		return nil, false, err
	}
	return &post, liked, nil
}

// AddComment appends comment to the post inside a single transaction
func (r *BadgerPostRepository) AddComment(postID int, comment *models.Comment) (*models.Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var post models.Post
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(postID), &post); err != nil {
			return err
		}
		c := *comment
		if err := post.AddComment(&c); err != nil {
			return err
		}
		post.Touch()
		if err := putEntity(txn, postKey(postID), &post); err != nil {
			return err
		}
		*comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SortNewestFirst orders posts by descending creation time, breaking ties by
// descending ID so the order is stable.
func SortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
