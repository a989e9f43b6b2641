package registry

import "sort"

// DefaultNamespace is reserved and present from construction.
const DefaultNamespace = "default"

// namespaceTable tracks which module names live in which namespace. Entries
// are never deleted, only emptied. It is not safe for concurrent use; the
// Registry serializes access.
type namespaceTable struct {
	members map[string]map[string]struct{}
}

func newNamespaceTable() *namespaceTable {
	return &namespaceTable{
		members: map[string]map[string]struct{}{
			DefaultNamespace: {},
		},
	}
}

func (t *namespaceTable) has(namespace string) bool {
	_, ok := t.members[namespace]
	return ok
}

func (t *namespaceTable) add(namespace, name string) {
	names, ok := t.members[namespace]
	if !ok {
		names = make(map[string]struct{})
		t.members[namespace] = names
	}
	names[name] = struct{}{}
}

// remove drops name from namespace but keeps the namespace entry.
func (t *namespaceTable) remove(namespace, name string) {
	if names, ok := t.members[namespace]; ok {
		delete(names, name)
	}
}

// snapshot returns namespace -> sorted names, including empty namespaces.
func (t *namespaceTable) snapshot() map[string][]string {
	out := make(map[string][]string, len(t.members))
	for ns, names := range t.members {
		list := make([]string, 0, len(names))
		for name := range names {
			list = append(list, name)
		}
		sort.Strings(list)
		out[ns] = list
	}
	return out
}
