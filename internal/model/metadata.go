// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// ResponseType classifies an answer returned by the backend.
type ResponseType string

const (
	ResponseLegalAnswer     ResponseType = "legal_answer"
	ResponseDocumentLink    ResponseType = "document_link"
	ResponseDocumentSummary ResponseType = "document_summary"
	ResponseNotFound        ResponseType = "not_found"
	ResponseError           ResponseType = "error"
)

// Valid reports whether t is one of the known response types.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseLegalAnswer, ResponseDocumentLink, ResponseDocumentSummary, ResponseNotFound, ResponseError:
		return true
	}
	return false
}

// Label returns a short French label for display under an answer.
func (t ResponseType) Label() string {
	switch t {
	case ResponseLegalAnswer:
		return "Réponse juridique"
	case ResponseDocumentLink:
		return "Lien vers un document"
	case ResponseDocumentSummary:
		return "Résumé de document"
	case ResponseNotFound:
		return "Aucun résultat"
	case ResponseError:
		return "Erreur"
	default:
		return string(t)
	}
}

// ResponseMetadata is the optional structured block attached to an answer.
type ResponseMetadata struct {
	ResponseType ResponseType `json:"responseType,omitempty"`
	Country      string       `json:"country,omitempty"`
	Sources      []Source     `json:"sources,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (md *ResponseMetadata) Clone() *ResponseMetadata {
	if md == nil {
		return nil
	}
	cp := *md
	if md.Sources != nil {
		cp.Sources = append([]Source(nil), md.Sources...)
	}
	return &cp
}

// Source is a citation backing an answer. Every field is optional.
type Source struct {
	Document  string  `json:"document,omitempty"`
	Relevance float64 `json:"relevance,omitempty"`
	Type      string  `json:"type,omitempty"`
	Numero    string  `json:"numero,omitempty"`
	Lien      string  `json:"lien,omitempty"`
}

// Title returns the best available label for the source.
func (s Source) Title() string {
	switch {
	case s.Document != "" && s.Numero != "":
		return s.Document + " n°" + s.Numero
	case s.Document != "":
		return s.Document
	case s.Numero != "":
		return s.Type + " n°" + s.Numero
	case s.Lien != "":
		return s.Lien
	default:
		return "Source"
	}
}
