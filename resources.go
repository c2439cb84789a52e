package grove

import "sort"

// Opaque resource handles. The core never inspects them; they are passed
// back to the Graphics implementation unchanged.
type (
	Model   any
	Mesh    any
	Texture any
	Skybox  any
)

// Material holds the specular response of a surface.
type Material struct {
	SpecularIntensity float32
	Shininess         float32
}

// DefaultMaterial is bound for geometry whose material name does not resolve.
var DefaultMaterial = &Material{SpecularIntensity: 0.3, Shininess: 4}

// Resources resolves asset names. A false second result means the name is
// unknown; the scene skips that binding.
type Resources interface {
	ModelByName(name string) (Model, bool)
	MeshByName(name string) (Mesh, bool)
	TextureByName(name string) (Texture, bool)
	MaterialByName(name string) (*Material, bool)
	SkyboxByName(name string) (Skybox, bool)
}

// Library is a name-keyed set of one kind of resource.
type Library[T any] struct {
	items map[string]T
}

// Register stores v under name, replacing any previous entry.
func (l *Library[T]) Register(name string, v T) {
	if l.items == nil {
		l.items = make(map[string]T)
	}
	l.items[name] = v
}

// Lookup returns the entry for name.
func (l *Library[T]) Lookup(name string) (T, bool) {
	v, ok := l.items[name]
	return v, ok
}

// Remove deletes the entry for name.
func (l *Library[T]) Remove(name string) {
	delete(l.items, name)
}

// Len returns the number of entries.
func (l *Library[T]) Len() int { return len(l.items) }

// Names returns the registered names in sorted order.
func (l *Library[T]) Names() []string {
	names := make([]string, 0, len(l.items))
	for n := range l.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Catalog is an in-memory Resources implementation.
type Catalog struct {
	Models    Library[Model]
	Meshes    Library[Mesh]
	Textures  Library[Texture]
	Materials Library[*Material]
	Skyboxes  Library[Skybox]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// ModelByName looks up a registered model.
func (c *Catalog) ModelByName(name string) (Model, bool) { return c.Models.Lookup(name) }

// MeshByName looks up a registered mesh.
func (c *Catalog) MeshByName(name string) (Mesh, bool) { return c.Meshes.Lookup(name) }

// TextureByName looks up a registered texture.
func (c *Catalog) TextureByName(name string) (Texture, bool) { return c.Textures.Lookup(name) }

// SkyboxByName looks up a registered skybox.
func (c *Catalog) SkyboxByName(name string) (Skybox, bool) { return c.Skyboxes.Lookup(name) }

// MaterialByName looks up a registered material.
func (c *Catalog) MaterialByName(name string) (*Material, bool) {
	m, ok := c.Materials.Lookup(name)
	return m, ok && m != nil
}
