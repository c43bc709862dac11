package repo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/recipe-service/internal/domain"
)

// Memory is an in-memory implementation of UserRepository and
// RecipeRepository. Handler tests run against it instead of a live
// mongo instance.
type Memory struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]domain.User
	recipes map[primitive.ObjectID]domain.Recipe
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[primitive.ObjectID]domain.User),
		recipes: make(map[primitive.ObjectID]domain.Recipe),
	}
}

func copyUser(u domain.User) domain.User {
	u.Recipes = append([]primitive.ObjectID{}, u.Recipes...)
	u.LikedRecipes = append([]primitive.ObjectID{}, u.LikedRecipes...)
	u.Tokens = append([]string{}, u.Tokens...)
	return u
}

func copyRecipe(r domain.Recipe) domain.Recipe {
	r.IngredientLines = append([]string{}, r.IngredientLines...)
	return r
}

func (m *Memory) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Recipes == nil {
		u.Recipes = []primitive.ObjectID{}
	}
	if u.LikedRecipes == nil {
		u.LikedRecipes = []primitive.ObjectID{}
	}
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	m.users[u.ID] = copyUser(*u)
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cu := copyUser(u)
			return &cu, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cu := copyUser(u)
	return &cu, nil
}

func (m *Memory) AddToken(ctx context.Context, id primitive.ObjectID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	u.Tokens = append(u.Tokens, token)
	m.users[id] = u
	return nil
}

func (m *Memory) RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	m.users[id] = u
	return nil
}

func (m *Memory) UpdateProfile(ctx context.Context, id primitive.ObjectID, up ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	u.FirstName = up.FirstName
	u.LastName = up.LastName
	u.Image = up.Image
	u.PasswordHash = up.PasswordHash
	m.users[id] = u
	return nil
}

func (m *Memory) PushRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	if liked {
		u.LikedRecipes = append(u.LikedRecipes, recipeID)
	} else {
		u.Recipes = append(u.Recipes, recipeID)
	}
	m.users[id] = u
	return nil
}

func (m *Memory) PullRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	pull := func(ids []primitive.ObjectID) []primitive.ObjectID {
		kept := ids[:0]
		for _, rid := range ids {
			if rid != recipeID {
				kept = append(kept, rid)
			}
		}
		return kept
	}
	if liked {
		u.LikedRecipes = pull(u.LikedRecipes)
	} else {
		u.Recipes = pull(u.Recipes)
	}
	m.users[id] = u
	return nil
}

func (m *Memory) InsertRecipe(ctx context.Context, r *domain.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.recipes[r.ID] = copyRecipe(*r)
	return nil
}

func (m *Memory) FindRecipeByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, nil
	}
	cr := copyRecipe(r)
	return &cr, nil
}

func (m *Memory) FindRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Recipe{}
	for _, id := range ids {
		if r, ok := m.recipes[id]; ok {
			out = append(out, copyRecipe(r))
		}
	}
	return out, nil
}

func (m *Memory) ReplaceRecipe(ctx context.Context, id primitive.ObjectID, r *domain.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.recipes[id]
	if !ok {
		return nil
	}
	ex.Label = r.Label
	ex.Image = r.Image
	ex.IngredientLines = append([]string{}, r.IngredientLines...)
	ex.Source = r.Source
	ex.TotalTime = r.TotalTime
	ex.Yield = r.Yield
	m.recipes[id] = ex
	return nil
}

func (m *Memory) DeleteRecipe(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, nil
	}
	delete(m.recipes, id)
	cr := copyRecipe(r)
	return &cr, nil
}
