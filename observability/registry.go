package observability

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(nil),
		"zap":  NewZapObserver(nil),
	}
	mutex sync.RWMutex
)

// GetObserver returns a registered observer by name.
// Pre-registered: "noop", "slog" (slog.Default), and "zap" (zap.L). The
// defaults follow the process-wide loggers at event time.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// Resolve looks up a comma-separated list of observer names, such as
// "slog,zap". A single name returns that observer; several are combined into
// a MultiObserver in the order given. Duplicates are ignored.
func Resolve(spec string) (Observer, error) {
	var (
		found []Observer
		seen  = make(map[string]bool)
	)
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		obs, err := GetObserver(name)
		if err != nil {
			return nil, err
		}
		found = append(found, obs)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no observer named in %q", spec)
	case 1:
		return found[0], nil
	default:
		return NewMultiObserver(found...), nil
	}
}

// RegisterObserver adds or replaces a named observer.
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}

// Names lists registered observer names in sorted order.
func Names() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(observers))
	for name := range observers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
