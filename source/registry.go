package source

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/gosdmx/sdmx/logger"
)

// DuplicateError is returned by Register for an ID that already exists
// when override is false.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("data source %q already defined; use override", e.ID)
}

// UnknownError is returned by Lookup for an ID with no registered source.
type UnknownError struct {
	ID string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown data source %q", e.ID)
}

// NoSource is the placeholder configuration used by clients constructed
// with an explicit base URL instead of a registered source.
var NoSource = &Source{}

// The process-wide registry. The embedded catalog is loaded on first
// use; after startup the registry is read-only, and concurrent reads
// need no synchronization. Programmatic registration racing with lookups
// during startup requires external synchronization, as does any caller
// mutating the registry after startup.
var (
	sources       = make(map[string]*Source)
	hookOverrides = make(map[string]Hooks)
	loadOnce      sync.Once
)

//go:embed sources.json
var packagedSources []byte

// loadPackagedSources reads the embedded catalog into the registry. A
// malformed catalog is a packaging defect and fails loudly.
func loadPackagedSources() {
	registerBuiltinHooks()

	var infos []sourceInfo
	if err := json.Unmarshal(packagedSources, &infos); err != nil {
		panic(fmt.Sprintf("source: malformed packaged sources.json: %v", err))
	}
	for i := range infos {
		s, err := infos[i].toSource()
		if err != nil {
			panic(fmt.Sprintf("source: malformed packaged sources.json: %v", err))
		}
		if err := register(s, "", false); err != nil {
			panic(fmt.Sprintf("source: loading packaged sources.json: %v", err))
		}
	}
	logger.Debug("loaded %d packaged sources", len(infos))
}

func ensureLoaded() {
	loadOnce.Do(loadPackagedSources)
}

// Register adds a data source under id, which defaults to cfg.ID. An
// existing source with the same id is an error unless override is true.
// The capability map is completed with defaults, and hook overrides
// registered for the id are attached.
func Register(cfg *Source, id string, override bool) error {
	ensureLoaded()
	return register(cfg, id, override)
}

func register(cfg *Source, id string, override bool) error {
	if id == "" {
		id = cfg.ID
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if _, exists := sources[id]; exists && !override {
		return &DuplicateError{ID: id}
	}

	cfg.applyDefaults()

	// Attach hook overrides registered for this source; hooks set
	// directly on the configuration win.
	if h, ok := hookOverrides[id]; ok {
		if cfg.Hooks.ModifyRequestArgs == nil {
			cfg.Hooks.ModifyRequestArgs = h.ModifyRequestArgs
		}
		if cfg.Hooks.HandleResponse == nil {
			cfg.Hooks.HandleResponse = h.HandleResponse
		}
		if cfg.Hooks.FinishMessage == nil {
			cfg.Hooks.FinishMessage = h.FinishMessage
		}
	}

	sources[id] = cfg
	return nil
}

// RegisterJSON adds a data source from its catalog JSON representation.
func RegisterJSON(data []byte, id string, override bool) error {
	cfg, err := FromJSON(data)
	if err != nil {
		return err
	}
	return Register(cfg, id, override)
}

// RegisterHooks installs hook overrides for a source id. Sources
// registered later under that id pick the hooks up; an already
// registered source is patched in place. Registering hooks for an id
// with no source is not an error: the hooks wait for the source.
func RegisterHooks(id string, h Hooks) {
	hookOverrides[id] = h
	if s, ok := sources[id]; ok {
		s.Hooks = h
	}
}

// Lookup returns the source registered under id.
func Lookup(id string) (*Source, error) {
	ensureLoaded()
	s, ok := sources[id]
	if !ok {
		return nil, &UnknownError{ID: id}
	}
	return s, nil
}

// IDs returns the sorted IDs of all registered sources.
func IDs() []string {
	ensureLoaded()
	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// registerBuiltinHooks installs the overrides shipped with the package.
// Each override lives in its own file; they are registered here
// explicitly rather than discovered by naming convention.
func registerBuiltinHooks() {
	RegisterHooks("ABS", Hooks{ModifyRequestArgs: absModifyRequestArgs})
	RegisterHooks("ESTAT", Hooks{FinishMessage: estatFinishMessage})
	RegisterHooks("INSEE", Hooks{ModifyRequestArgs: inseeModifyRequestArgs})
	RegisterHooks("OECD", Hooks{ModifyRequestArgs: oecdModifyRequestArgs})
	RegisterHooks("SGR", Hooks{HandleResponse: sgrHandleResponse})
}

// DelayedResponseError is returned through the ESTAT FinishMessage hook
// when the service answers with a footer pointing at an asynchronously
// prepared file instead of the requested content. The caller retrieves
// the content from URL once it is ready.
type DelayedResponseError struct {
	Code int
	URL  string
}

func (e *DelayedResponseError) Error() string {
	return fmt.Sprintf("response delayed by service (footer code %d); content at %s", e.Code, e.URL)
}
