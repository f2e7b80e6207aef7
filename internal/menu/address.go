package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// An Address locates an entry by the indices along its path from the root,
// written as "2/0/5". The empty address is the root itself.
type Address []uint32

// ParseAddress parses a slash-separated index path. Leading and trailing
// slashes are ignored.
func ParseAddress(s string) (Address, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	addr := make(Address, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %q is not an index", s, p)
		}
		addr = append(addr, uint32(n))
	}
	return addr, nil
}

func (a Address) String() string {
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, "/")
}

// Parent returns the address of the folder holding a.
func (a Address) Parent() Address {
	if len(a) == 0 {
		return nil
	}
	return a[:len(a)-1]
}

// Lookup loads the entry at addr. Every component but the last must be a
// folder.
func (c *Catalog) Lookup(addr Address) (Entry, error) {
	if len(addr) == 0 {
		return Entry{}, fmt.Errorf("%w: the root is not an entry", ErrNoEntry)
	}
	dir, err := c.Dir(addr.Parent())
	if err != nil {
		return Entry{}, err
	}
	path := EntryPath(dir, addr[len(addr)-1])
	e, err := c.LoadEntry(path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w %s: %v", ErrNoEntry, addr, err)
	}
	return e, nil
}

// Dir returns the directory addressed by addr: the root for the empty
// address, otherwise the backing directory of the folder at addr.
func (c *Catalog) Dir(addr Address) (string, error) {
	dir := c.root
	for i, idx := range addr {
		e, err := c.LoadEntry(EntryPath(dir, idx))
		if err != nil {
			return "", fmt.Errorf("%w %s: %v", ErrNoEntry, addr[:i+1], err)
		}
		if !e.Is(EntryFolder) {
			return "", fmt.Errorf("%s: %w", addr[:i+1], ErrNotFolder)
		}
		dir = e.FolderPath()
	}
	return dir, nil
}
