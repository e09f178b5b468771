package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/docufield/docufield/internal/entity"
)

const templatesKey = "docufield-templates"

// TemplateRepository persists named field templates as a single JSON document.
// Template names are unique; saving an existing name replaces it.
type TemplateRepository struct {
	store Store
	mu    sync.Mutex
}

func NewTemplateRepository(store Store) *TemplateRepository {
	return &TemplateRepository{store: store}
}

func (r *TemplateRepository) load(ctx context.Context) ([]entity.Template, error) {
	raw, err := r.store.Get(ctx, templatesKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []entity.Template{}, nil
	}
	var templates []entity.Template
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("decode template collection: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) save(ctx context.Context, templates []entity.Template) error {
	raw, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("encode template collection: %w", err)
	}
	return r.store.Put(ctx, templatesKey, raw)
}

// List returns all saved templates.
func (r *TemplateRepository) List(ctx context.Context) ([]entity.Template, error) {
	return r.load(ctx)
}

// Get returns the template with the given name, or ErrNotFound.
func (r *TemplateRepository) Get(ctx context.Context, name string) (*entity.Template, error) {
	templates, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].Name == name {
			tpl := templates[i]
			return &tpl, nil
		}
	}
	return nil, ErrNotFound
}

// Save stores a template, replacing any existing template of the same name.
func (r *TemplateRepository) Save(ctx context.Context, tpl entity.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	templates, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].Name == tpl.Name {
			templates[i] = tpl
			return r.save(ctx, templates)
		}
	}
	templates = append(templates, tpl)
	return r.save(ctx, templates)
}

// Delete removes a template by name. Unknown names return ErrNotFound.
func (r *TemplateRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	templates, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].Name == name {
			templates = append(templates[:i], templates[i+1:]...)
			return r.save(ctx, templates)
		}
	}
	return ErrNotFound
}
