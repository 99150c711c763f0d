package entities

import "time"

// Storage hooks shared by every persisted record. Owner is the user that
// scopes visibility and cache keys; for a User it is the user itself.

func (u *User) GetID() string { return u.ID }
func (u *User) SetID(id string) { u.ID = id }
func (u *User) Owner() string { return u.ID }
func (u *User) Touch(now time.Time) { touch(&u.CreatedAt, &u.UpdatedAt, now) }

func (u *User) Clone() *User {
	c := *u
	return &c
}

func (u *User) Field(name string) (string, bool) {
	switch name {
	case "email":
		return u.Email, true
	case "name":
		return u.Name, true
	case "role":
		return string(u.Role), true
	default:
		return "", false
	}
}

func (t *Task) GetID() string { return t.ID }
func (t *Task) SetID(id string) { t.ID = id }
func (t *Task) Owner() string { return t.User }
func (t *Task) Touch(now time.Time) { touch(&t.CreatedAt, &t.UpdatedAt, now) }

func (t *Task) Clone() *Task {
	c := *t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

func (t *Task) Field(name string) (string, bool) {
	switch name {
	case "title":
		return t.Title, true
	case "status":
		return string(t.Status), true
	case "category":
		return t.Category, true
	case "user":
		return t.User, true
	default:
		return "", false
	}
}

func (c *Category) GetID() string { return c.ID }
func (c *Category) SetID(id string) { c.ID = id }
func (c *Category) Owner() string { return c.User }
func (c *Category) Touch(now time.Time) { touch(&c.CreatedAt, &c.UpdatedAt, now) }

func (c *Category) Clone() *Category {
	out := *c
	return &out
}

func (c *Category) Field(name string) (string, bool) {
	switch name {
	case "name":
		return c.Name, true
	case "user":
		return c.User, true
	default:
		return "", false
	}
}

func (p *Project) GetID() string { return p.ID }
func (p *Project) SetID(id string) { p.ID = id }
func (p *Project) Owner() string { return p.User }
func (p *Project) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Project) Clone() *Project {
	c := *p
	if p.Files != nil {
		c.Files = append([]ProjectFile(nil), p.Files...)
	}
	return &c
}

func (p *Project) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "status":
		return string(p.Status), true
	case "user":
		return p.User, true
	default:
		return "", false
	}
}

func (p *Page) GetID() string { return p.ID }
func (p *Page) SetID(id string) { p.ID = id }
func (p *Page) Owner() string { return p.User }
func (p *Page) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Page) Clone() *Page {
	c := *p
	if p.Boxes != nil {
		c.Boxes = make([]Box, len(p.Boxes))
		for i, b := range p.Boxes {
			if b.File != nil {
				f := *b.File
				b.File = &f
			}
			c.Boxes[i] = b
		}
	}
	if p.SharedWith != nil {
		c.SharedWith = append([]string(nil), p.SharedWith...)
	}
	return &c
}

func (p *Page) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "user":
		return p.User, true
	default:
		return "", false
	}
}

func touch(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
