package decompile

import (
	"path"
	"sort"
	"strings"

	"datamine/internal/textutil"
)

// TypeRef names one top-level type inside an assembly.
type TypeRef struct {
	Namespace string
	Name      string
}

// FullName joins namespace and name with a dot.
func (t TypeRef) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// ParseTypeRef splits a full type name at its last dot.
func ParseTypeRef(fullName string) TypeRef {
	fullName = strings.TrimSpace(fullName)
	if i := strings.LastIndexByte(fullName, '.'); i > 0 {
		return TypeRef{Namespace: fullName[:i], Name: fullName[i+1:]}
	}
	return TypeRef{Name: fullName}
}

// Include reports whether t is written out. Compiler generated helpers are not.
func Include(t TypeRef) bool {
	if t.Name == "" || t.Name == "<Module>" {
		return false
	}
	return !(t.Namespace == "XamlGeneratedNamespace" && t.Name == "GeneratedInternalTypeHelper")
}

// Group is the set of types rendered into one file.
type Group struct {
	Key   string
	Types []TypeRef
}

// GroupKey returns the slash-separated file path for a type: the cleaned
// namespace as a directory and the cleaned type name with a .cs extension.
// Types without a namespace land at the module root.
func GroupKey(namespace, name string) string {
	file := cleanFileName(name) + ".cs"
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return file
	}
	return path.Join(cleanDirName(namespace), file)
}

// Groups partitions types by GroupKey, ignoring case. The first spelling of a
// key wins and groups are returned sorted by key.
func Groups(types []TypeRef) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, t := range types {
		if !Include(t) {
			continue
		}
		key := GroupKey(t.Namespace, t.Name)
		fold := strings.ToLower(key)
		if i, ok := index[fold]; ok {
			groups[i].Types = append(groups[i].Types, t)
			continue
		}
		index[fold] = len(groups)
		groups = append(groups, Group{Key: key, Types: []TypeRef{t}})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// OutputDir maps an assembly name onto its output directory.
func OutputDir(module string) string {
	return textutil.DotsToDashes(module)
}

func cleanFileName(name string) string {
	// Generic arity suffixes such as List`1 are dropped.
	if i := strings.IndexByte(name, '`'); i > 0 {
		name = name[:i]
	}
	name = textutil.SanitizeFileName(strings.ReplaceAll(name, " ", ""))
	if name == "" {
		return "_"
	}
	return name
}

func cleanDirName(namespace string) string {
	parts := strings.Split(namespace, ".")
	for i, p := range parts {
		parts[i] = cleanFileName(p)
	}
	return strings.Join(parts, ".")
}
