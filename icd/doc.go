/*
NAME
  doc.go - YAML document shape for an ICD.

DESCRIPTION
  Mirrors the recognized ICD fields of spec.md §6 one-to-one as a
  gopkg.in/yaml.v3 unmarshal target. This is purely a wire/document shape;
  Load converts it into the validated icd.ICD model in loader.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package icd

// document is the raw YAML shape of an ICD file.
type document struct {
	Bus      string        `yaml:"bus"`
	Messages []messageDoc  `yaml:"messages"`
}

type messageDoc struct {
	Name   string    `yaml:"name"`
	RateHz float64   `yaml:"rate_hz"`
	RT     uint8     `yaml:"rt"`
	TR     string    `yaml:"tr"`
	SA     uint8     `yaml:"sa"`
	WC     uint8     `yaml:"wc"`
	Words  []wordDoc `yaml:"words"`
}

type wordDoc struct {
	Name      string   `yaml:"name"`
	Encode    string   `yaml:"encode"`
	Src       string   `yaml:"src"`
	Const     *float64 `yaml:"const"`
	Scale     *float64 `yaml:"scale"`
	Offset    *float64 `yaml:"offset"`
	MinValue  *float64 `yaml:"min_value"`
	MaxValue  *float64 `yaml:"max_value"`
	Mask      *uint16  `yaml:"mask"`
	Shift     *uint16  `yaml:"shift"`
	WordIndex *int     `yaml:"word_index"`
	WordOrder string   `yaml:"word_order"`
	OnOverflow string  `yaml:"on_overflow"`
}
