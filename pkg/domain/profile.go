package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/aretw0/spiritual/pkg/wire"
)

// Profile wraps a Profile record instance with typed accessors.
type Profile struct {
	inst *schema.Instance
}

// NewProfile creates a fresh profile with default progress.
func NewProfile(playerName string) (*Profile, error) {
	if err := ValidatePlayerName(playerName); err != nil {
		return nil, err
	}
	inst, err := ProfileRecord.Named(schema.Args{"player_name": playerName})
	if err != nil {
		return nil, err
	}
	return &Profile{inst: inst}, nil
}

// LoadProfile builds a profile from stored wire data. Data that does not
// satisfy the Profile record yields ErrInvalidProfile.
func LoadProfile(v any) (*Profile, error) {
	inst, err := ProfileRecord.Load(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return &Profile{inst: inst}, nil
}

// ProfileFromInstance wraps an existing Profile instance.
func ProfileFromInstance(inst *schema.Instance) (*Profile, error) {
	if inst == nil || inst.Record() != ProfileRecord {
		return nil, fmt.Errorf("%w: not a Profile instance", ErrInvalidProfile)
	}
	return &Profile{inst: inst}, nil
}

// ValidatePlayerName rejects names that cannot be used as a storage key
// (profiles are stored as "<player_name>.json").
func ValidatePlayerName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidPlayerName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidPlayerName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidPlayerName, name)
	}
	return nil
}

func (p *Profile) PlayerName() string { return p.inst.Text("player_name") }

// HasAchievement reports whether an achievement is unlocked.
func (p *Profile) HasAchievement(name string) bool {
	v, _ := p.inst.Mapping("achievements").Get(name)
	unlocked, _ := v.(bool)
	return unlocked
}

// SetAchievement records an achievement as unlocked or locked.
func (p *Profile) SetAchievement(name string, unlocked bool) {
	p.inst.Mapping("achievements").Set(name, unlocked)
}

// Skill returns the level of a skill, 0 when untrained.
func (p *Profile) Skill(name string) float64 {
	v, _ := p.inst.Mapping("skills").Get(name)
	level, _ := v.(float64)
	return level
}

func (p *Profile) SetSkill(name string, level float64) {
	p.inst.Mapping("skills").Set(name, level)
}

// Items returns the inventory. Items are untyped wire values.
func (p *Profile) Items() []any { return p.inst.List("items") }

// AddItem appends an item to the inventory. The item is normalized to a wire value.
func (p *Profile) AddItem(item any) error {
	v, err := wire.Normalize(item)
	if err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	items := append(append([]any{}, p.Items()...), v)
	return p.inst.Set("items", items)
}

// LastUpdate returns the time of the last save.
func (p *Profile) LastUpdate() time.Time {
	return time.Unix(p.inst.Int("last_update"), 0)
}

// Touch stamps last_update with now, in unix seconds.
func (p *Profile) Touch(now time.Time) {
	_ = p.inst.Set("last_update", now.Unix())
}

// Instance returns the underlying record instance.
func (p *Profile) Instance() *schema.Instance { return p.inst }

// Dump returns the wire form of the profile, fields in declaration order.
func (p *Profile) Dump() *wire.Map { return p.inst.Dump() }

func (p *Profile) Clone() *Profile { return &Profile{inst: p.inst.Clone()} }

func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.inst.Equal(o.inst)
}

func (p *Profile) String() string { return p.inst.String() }
