package model

import "strings"

// Asset is a controllable entity such as a spacecraft. Dynamic assets move
// during the simulation, which prevents pre-generating their accesses.
type Asset struct {
	Name    string `json:"name" yaml:"name"`
	Dynamic bool   `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// StatePrefix is the lower-case namespace of the asset's state variables.
func (a *Asset) StatePrefix() string { return strings.ToLower(a.Name) }
