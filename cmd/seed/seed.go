package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"screen-ai/config"
	"screen-ai/services"

	"gopkg.in/yaml.v3"
)

type AdminFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

type CompoundFixture struct {
	ExternalID string  `yaml:"external_id"`
	Name       *string `yaml:"name"`
}

// Fixture ist der Inhalt der Seed-Datei.
type Fixture struct {
	Admin     *AdminFixture     `yaml:"admin"`
	Compounds []CompoundFixture `yaml:"compounds"`
}

type Result struct {
	Admin            bool
	CompoundsCreated int
	CompoundsUpdated int
}

func LoadFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	seen := make(map[string]bool, len(fx.Compounds))
	for i, c := range fx.Compounds {
		if c.ExternalID == "" {
			return nil, fmt.Errorf("compound %d: external_id is required", i)
		}
		if seen[c.ExternalID] {
			return nil, fmt.Errorf("compound %d: duplicate external_id %q", i, c.ExternalID)
		}
		seen[c.ExternalID] = true
	}
	return &fx, nil
}

// Apply legt den Admin an (Fixture vor ADMIN_*-Umgebung) und gleicht die
// Substanzen per external_id ab.
func Apply(ctx context.Context, svc *services.Services, cfg *config.Config, fx *Fixture) (Result, error) {
	var res Result

	adminCfg := *cfg
	if fx.Admin != nil {
		adminCfg.AdminEmail = fx.Admin.Email
		adminCfg.AdminPassword = fx.Admin.Password
		if fx.Admin.FullName != "" {
			adminCfg.AdminFullName = fx.Admin.FullName
		}
	}
	if adminCfg.AdminPassword != "" {
		if err := svc.Auth.EnsureAdmin(ctx, &adminCfg); err != nil {
			return res, fmt.Errorf("admin: %w", err)
		}
		res.Admin = true
	}

	for _, c := range fx.Compounds {
		_, created, err := svc.Compounds.Upsert(ctx, c.ExternalID, c.Name)
		if err != nil {
			return res, fmt.Errorf("compound %s: %w", c.ExternalID, err)
		}
		if created {
			res.CompoundsCreated++
		} else {
			res.CompoundsUpdated++
		}
	}
	return res, nil
}
