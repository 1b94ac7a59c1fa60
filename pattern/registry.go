package pattern

import "strings"

// Config carries the user-supplied portion of the Pattern Registry's
// resolution rules. It is a plain value type so callers can build it
// directly or populate it from a deserialized configuration file.
type Config struct {
	UseDefaultAllocatorPatterns      bool
	DisabledDefaultAllocatorPatterns []string
	AllocatorPatterns                []AllocatorRule

	UseDefaultOwnershipPatterns bool
	OwnershipPatterns           []OwnershipRule

	AllowedAllocators []string
}

// Registry resolves identifier and return-type text to canonical allocator
// and ownership categories. A Registry is built fresh from a Config at the
// start of each analysis call; it is never a process-wide singleton, so two
// concurrent analyses with different configuration never interfere.
type Registry struct {
	allocatorRules []AllocatorRule // user rules first, then enabled defaults
	ownershipRules []OwnershipRule
	allowed        map[string]bool
}

// NewRegistry builds a Registry from cfg, applying user-rule precedence and
// disabled-default filtering once so every later lookup is a simple scan.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{}

	r.allocatorRules = append(r.allocatorRules, cfg.AllocatorPatterns...)
	if cfg.UseDefaultAllocatorPatterns {
		disabled := toSet(cfg.DisabledDefaultAllocatorPatterns)
		for _, rule := range DefaultAllocatorRules() {
			if disabled[rule.Name] {
				continue
			}
			r.allocatorRules = append(r.allocatorRules, rule)
		}
	}

	r.ownershipRules = append(r.ownershipRules, cfg.OwnershipPatterns...)
	if cfg.UseDefaultOwnershipPatterns {
		r.ownershipRules = append(r.ownershipRules, DefaultOwnershipRules()...)
	}

	if len(cfg.AllowedAllocators) > 0 {
		r.allowed = toSet(cfg.AllowedAllocators)
	}

	return r
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// ResolveAllocator classifies identifier text (e.g. the expression to the
// left of a `.alloc`/`.create`/`.dupe` call) to a canonical allocator name.
// User rules are tried first; the first matching rule, user or default,
// wins.
func (r *Registry) ResolveAllocator(identifierText string) (string, bool) {
	for _, rule := range r.allocatorRules {
		if rule.Pattern != "" && strings.Contains(identifierText, rule.Pattern) {
			return rule.Name, true
		}
	}
	return "", false
}

// IsOwnershipTransfer reports whether a function is ownership-transferring
// by name or by return-type text, per the resolved rule set. Function
// pointer return types are never treated as an owned-pointer return.
func (r *Registry) IsOwnershipTransfer(funcName, returnType string) bool {
	for _, rule := range r.ownershipRules {
		if rule.FunctionPattern != "" && strings.Contains(funcName, rule.FunctionPattern) {
			return true
		}
		if rule.ReturnTypePattern != "" && !isFunctionPointerReturn(returnType) && strings.Contains(returnType, rule.ReturnTypePattern) {
			return true
		}
	}
	return false
}

// HasAllowList reports whether the registry has a restrictive allow
// list configured at all (an empty list means "every allocator permitted").
func (r *Registry) HasAllowList() bool {
	return len(r.allowed) > 0
}

// IsAllowed reports whether name is permitted under the configured allow
// list. Always true when no allow list is configured.
func (r *Registry) IsAllowed(name string) bool {
	if len(r.allowed) == 0 {
		return true
	}
	return r.allowed[name]
}
