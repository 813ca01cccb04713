// Package reindex rebuilds the party graph from the workspace: the external
// source of truth for matter party information.
package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// matterFileName is the per-matter metadata file inside each workspace
// directory.
const matterFileName = "matter.yaml"

// Matter is one workspace matter with its party entries, ready to seed.
type Matter struct {
	ID      domain.MatterID
	Entries []conflicts.SeedEntry
}

// Source yields the matters to reindex. skipped counts matters whose
// metadata was malformed; they are logged and excluded, never fatal.
type Source interface {
	Matters(ctx context.Context) (matters []Matter, skipped int, err error)
}

// matterFile is the on-disk YAML shape of matter metadata.
type matterFile struct {
	ID      string       `yaml:"id"`
	Parties []partyEntry `yaml:"parties"`
}

type partyEntry struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Role    string   `yaml:"role"`
	Aliases []string `yaml:"aliases"`
}

// WorkspaceSource reads matter metadata from a workspace directory: one
// subdirectory per matter, each holding a matter.yaml.
type WorkspaceSource struct {
	root   string
	logger *slog.Logger
}

func NewWorkspaceSource(root string, logger *slog.Logger) *WorkspaceSource {
	return &WorkspaceSource{root: root, logger: logger}
}

// Matters walks the workspace. A malformed matter is logged and counted as
// skipped; an unreadable workspace root aborts.
func (s *WorkspaceSource) Matters(ctx context.Context) ([]Matter, int, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeMalformedSource, "read workspace root")
	}

	var matters []Matter
	skipped := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, skipped, dErrors.Wrap(err, dErrors.CodeTimeout, "workspace scan cancelled")
		}
		if !dir.IsDir() {
			continue
		}
		path := filepath.Join(s.root, dir.Name(), matterFileName)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue // not a matter directory
		}
		if err != nil {
			s.logger.WarnContext(ctx, "matter metadata unreadable, skipping",
				"matter_dir", dir.Name(),
				"error", err,
			)
			skipped++
			continue
		}

		matter, err := parseMatter(raw, dir.Name())
		if err != nil {
			s.logger.WarnContext(ctx, "matter metadata malformed, skipping",
				"matter_dir", dir.Name(),
				"error", err,
			)
			skipped++
			continue
		}
		matters = append(matters, matter)
	}
	return matters, skipped, nil
}

// parseMatter decodes and validates one matter.yaml. The matter ID defaults
// to the directory name.
func parseMatter(raw []byte, dirName string) (Matter, error) {
	var mf matterFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return Matter{}, dErrors.Wrap(err, dErrors.CodeMalformedSource, "decode matter metadata")
	}

	idRaw := mf.ID
	if idRaw == "" {
		idRaw = dirName
	}
	matterID, err := domain.ParseMatterID(idRaw)
	if err != nil {
		return Matter{}, err
	}

	matter := Matter{ID: matterID}
	for i, p := range mf.Parties {
		entry, err := p.toSeedEntry(matterID)
		if err != nil {
			return Matter{}, dErrors.Wrap(err, dErrors.CodeMalformedSource,
				fmt.Sprintf("party entry %d", i))
		}
		matter.Entries = append(matter.Entries, entry)
	}
	return matter, nil
}

func (p partyEntry) toSeedEntry(matterID domain.MatterID) (conflicts.SeedEntry, error) {
	if p.Name == "" {
		return conflicts.SeedEntry{}, dErrors.New(dErrors.CodeMalformedSource, "party name missing")
	}
	typeRaw := p.Type
	if typeRaw == "" {
		typeRaw = string(conflicts.PartyEntity)
	}
	partyType, err := conflicts.ParsePartyType(typeRaw)
	if err != nil {
		return conflicts.SeedEntry{}, err
	}
	roleRaw := p.Role
	if roleRaw == "" {
		roleRaw = string(conflicts.RoleRelated)
	}
	role, err := conflicts.ParseRole(roleRaw)
	if err != nil {
		return conflicts.SeedEntry{}, err
	}
	return conflicts.SeedEntry{
		MatterID:      matterID,
		CanonicalName: p.Name,
		Type:          partyType,
		Role:          role,
		Aliases:       p.Aliases,
	}, nil
}

// conflictsFile is the on-disk YAML shape of the supplementary global
// conflicts list.
type conflictsFile struct {
	Parties []conflictsEntry `yaml:"parties"`
}

type conflictsEntry struct {
	Matter  string   `yaml:"matter"`
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Role    string   `yaml:"role"`
	Aliases []string `yaml:"aliases"`
}

// globalMatterID labels supplementary entries that carry no matter of their
// own (watch-list names adverse to the practice as a whole).
const globalMatterID = domain.MatterID("GLOBAL-CONFLICTS")

// ConflictsFile reads the supplementary conflicts list. It is merged into
// every reindex and doubles as the degraded fallback source for checks.
type ConflictsFile struct {
	path   string
	logger *slog.Logger
}

func NewConflictsFile(path string, logger *slog.Logger) *ConflictsFile {
	return &ConflictsFile{path: path, logger: logger}
}

// Entries implements conflicts.FallbackSource. A missing file surfaces as
// the underlying fs.ErrNotExist so the pipeline can treat it as optional.
// Malformed entries are logged and counted as skipped, never fatal.
func (f *ConflictsFile) Entries(ctx context.Context) ([]conflicts.SeedEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeTimeout, "conflicts file read cancelled")
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, 0, err
	}

	var cf conflictsFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeMalformedSource, "decode conflicts file")
	}

	var entries []conflicts.SeedEntry
	skipped := 0
	for i, e := range cf.Parties {
		matterRaw := e.Matter
		if matterRaw == "" {
			matterRaw = string(globalMatterID)
		}
		matterID, err := domain.ParseMatterID(matterRaw)
		if err == nil {
			var entry conflicts.SeedEntry
			entry, err = partyEntry{
				Name:    e.Name,
				Type:    e.Type,
				Role:    firstNonEmpty(e.Role, string(conflicts.RoleAdverse)),
				Aliases: e.Aliases,
			}.toSeedEntry(matterID)
			if err == nil {
				entries = append(entries, entry)
				continue
			}
		}
		skipped++
		f.logger.WarnContext(ctx, "conflicts file entry malformed, skipping",
			"entry", i,
			"error", err,
		)
	}
	return entries, skipped, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
