package authzrules

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
)

// stringAdapter loads a casbin policy from an in-memory CSV string
// (the embedded default policy). Policies in this package are read-only:
// SavePolicy/AddPolicy/RemovePolicy are no-ops, since the addon
// install/uninstall rules are a compiled-in constant, not a
// runtime-editable ACL.
type stringAdapter struct {
	content string
}

func newStringAdapter(content string) *stringAdapter {
	return &stringAdapter{content: content}
}

// LoadPolicy implements persist.Adapter.
func (a *stringAdapter) LoadPolicy(m model.Model) error {
	for _, line := range strings.Split(a.content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		persist.LoadPolicyLine(line, m)
	}
	return nil
}

// SavePolicy implements persist.Adapter. The embedded policy is
// compiled-in; this adapter never persists changes back.
func (a *stringAdapter) SavePolicy(model.Model) error {
	return fmt.Errorf("authzrules: SavePolicy unsupported on the embedded string adapter")
}

// AddPolicy implements persist.Adapter.
func (a *stringAdapter) AddPolicy(sec string, ptype string, rule []string) error {
	return fmt.Errorf("authzrules: AddPolicy unsupported on the embedded string adapter")
}

// RemovePolicy implements persist.Adapter.
func (a *stringAdapter) RemovePolicy(sec string, ptype string, rule []string) error {
	return fmt.Errorf("authzrules: RemovePolicy unsupported on the embedded string adapter")
}

// RemoveFilteredPolicy implements persist.Adapter.
func (a *stringAdapter) RemoveFilteredPolicy(sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return fmt.Errorf("authzrules: RemoveFilteredPolicy unsupported on the embedded string adapter")
}
