package worlds

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MaxSeed is the largest seed a client generator accepts (2^31 - 1).
const MaxSeed = 2147483647

// World is one name -> seed binding.
type World struct {
	Name string `json:"name" validate:"required"`
	Seed int64  `json:"seed" validate:"min=0,max=2147483647"`
}

var (
	ErrValidation  = errors.New("invalid world")
	ErrNotFound    = errors.New("world not found")
	ErrPersistence = errors.New("world registry unavailable")
)

type IWorldRegistry interface {
	Register(name string, seed int64) error
	GetSeed(name string) (int64, error)
	List() ([]World, error)
	Delete(name string) (bool, error)
}

// Registry is the file-backed world registry. Every call reloads the file;
// nothing is cached between calls. Mutations hold the write lock for the
// whole load-modify-store sequence so concurrent writers cannot lose updates.
type Registry struct {
	path string
	mu   sync.RWMutex
}

var _ IWorldRegistry = (*Registry)(nil)

var validate = validator.New()

func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Register upserts name -> seed. Last write wins.
func (r *Registry) Register(name string, seed int64) error {
	w := World{Name: name, Seed: seed}
	if err := validateWorld(w); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, err := r.load()
	if err != nil {
		return err
	}
	tbl.upsert(w.Name, w.Seed)
	if err := r.store(tbl); err != nil {
		return err
	}
	zap.L().Info("worlds.registered", zap.String("world", name), zap.Int64("seed", seed))
	return nil
}

func (r *Registry) GetSeed(name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tbl, err := r.load()
	if err != nil {
		return 0, err
	}
	seed, ok := tbl.get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return seed, nil
}

// List returns every world in the order it was first registered.
func (r *Registry) List() ([]World, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tbl, err := r.load()
	if err != nil {
		return nil, err
	}
	return tbl.list(), nil
}

// Delete reports whether name was present. The file is only rewritten when
// something was actually removed.
func (r *Registry) Delete(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, err := r.load()
	if err != nil {
		return false, err
	}
	if !tbl.remove(name) {
		return false, nil
	}
	if err := r.store(tbl); err != nil {
		return false, err
	}
	zap.L().Info("worlds.deleted", zap.String("world", name))
	return true, nil
}

func validateWorld(w World) error {
	err := validate.Struct(w)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, "worldName must be a non-empty string")
		case "Seed":
			msgs = append(msgs, fmt.Sprintf("seed must be an integer between 0 and %d", MaxSeed))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
