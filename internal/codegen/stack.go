// Package codegen synthesizes copy-pasteable client code examples for API
// endpoints across a fixed set of frontend and mobile stacks. Synthesis is
// deterministic: the same endpoint and stack always produce the same string.
package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Stack identifies a client stack for example synthesis. The string values
// are a stable public contract used in URLs and request payloads; they must
// never be renamed.
type Stack string

const (
	// Web stacks.
	StackReactFetch Stack = "react-fetch"
	StackReactAxios Stack = "react-axios"
	StackVue3       Stack = "vue3"
	StackNextJS     Stack = "nextjs"
	StackAngular    Stack = "angular"
	StackSvelte     Stack = "svelte"
	StackVanilla    Stack = "vanilla"

	// Mobile stacks.
	StackReactNative   Stack = "react-native"
	StackFlutter       Stack = "flutter"
	StackSwiftIOS      Stack = "swift-ios"
	StackKotlinAndroid Stack = "kotlin-android"
)

// Descriptor pairs a stack id with its display label.
type Descriptor struct {
	Value Stack  `json:"value"`
	Label string `json:"label"`
}

var descriptors = []Descriptor{
	{StackReactFetch, "React + fetch"},
	{StackReactAxios, "React + axios"},
	{StackVue3, "Vue 3"},
	{StackNextJS, "Next.js"},
	{StackAngular, "Angular"},
	{StackSvelte, "Svelte"},
	{StackVanilla, "Vanilla JS"},
	{StackReactNative, "React Native"},
	{StackFlutter, "Flutter"},
	{StackSwiftIOS, "Swift (iOS)"},
	{StackKotlinAndroid, "Kotlin (Android)"},
}

// Descriptors returns all stacks in presentation order, web before mobile.
// The returned slice is a copy.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// WebStacks returns the descriptors for browser-based stacks.
func WebStacks() []Descriptor {
	return Descriptors()[:7]
}

// MobileStacks returns the descriptors for mobile stacks.
func MobileStacks() []Descriptor {
	return Descriptors()[7:]
}

// ParseStack validates a stack id. The error message lists the valid ids in
// sorted order, suitable for returning to API clients verbatim.
func ParseStack(s string) (Stack, error) {
	for _, d := range descriptors {
		if string(d.Value) == s {
			return d.Value, nil
		}
	}
	ids := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		ids = append(ids, string(d.Value))
	}
	sort.Strings(ids)
	return "", fmt.Errorf("stack must be one of: %s", strings.Join(ids, ", "))
}
