// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

// Answerer produces the assistant reply for one question.
type Answerer interface {
	Answer(ctx context.Context, conversationID, question string) (*model.Message, error)
}

// ============================================================================
// LIBRARY
// ============================================================================

const (
	// DefaultCountry is reported in the metadata of every library answer.
	DefaultCountry = "Burkina Faso"

	// maxSources caps the citations attached to one answer.
	maxSources = 3

	// minTopicRunes is the shortest word that counts as a topic.
	minTopicRunes = 3
)

// NotFoundText is the reply when no text matches the question.
const NotFoundText = "Je n'ai trouvé aucun texte juridique correspondant à votre question. " +
	"Essayez de préciser le domaine concerné (travail, famille, foncier, commerce...)."

// Entry is one legal text the library can cite.
type Entry struct {
	Keywords []string
	Summary  string
	Source   model.Source
}

// Library answers questions from a fixed set of entries.
type Library struct {
	Country string
	entries []Entry
}

// NewLibrary returns a library loaded with the built-in entries.
func NewLibrary() *Library {
	return NewLibraryWith(DefaultCountry, defaultEntries)
}

// NewLibraryWith returns a library over the given entries.
func NewLibraryWith(country string, entries []Entry) *Library {
	return &Library{Country: country, entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (l *Library) Len() int {
	return len(l.entries)
}

type match struct {
	entry Entry
	hits  int
}

// Answer matches the question against the library. It never fails on content;
// an unmatched or blank-ish question yields a not_found reply.
func (l *Library) Answer(ctx context.Context, conversationID, question string) (*model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := topicWords(question)
	if len(words) == 0 {
		return l.notFound(conversationID), nil
	}

	var matches []match
	for _, e := range l.entries {
		if hits := countHits(words, e.Keywords); hits > 0 {
			matches = append(matches, match{entry: e, hits: hits})
		}
	}
	if len(matches) == 0 {
		return l.notFound(conversationID), nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].hits > matches[j].hits
	})
	if len(matches) > maxSources {
		matches = matches[:maxSources]
	}

	var b strings.Builder
	b.WriteString("**Éléments de réponse**\n\n")
	sources := make([]model.Source, 0, len(matches))
	for _, m := range matches {
		src := m.entry.Source
		src.Relevance = relevance(m.hits)
		sources = append(sources, src)
		fmt.Fprintf(&b, "- **%s** : %s\n", src.Title(), m.entry.Summary)
	}
	b.WriteString("\n_Ces informations sont données à titre indicatif et ne remplacent pas l'avis d'un professionnel du droit._")

	msg := model.NewMessage(conversationID, b.String(), model.RoleAssistant)
	msg.Metadata = &model.ResponseMetadata{
		ResponseType: model.ResponseLegalAnswer,
		Country:      l.Country,
		Sources:      sources,
	}
	return msg, nil
}

func (l *Library) notFound(conversationID string) *model.Message {
	msg := model.NewMessage(conversationID, NotFoundText, model.RoleAssistant)
	msg.Metadata = &model.ResponseMetadata{
		ResponseType: model.ResponseNotFound,
		Country:      l.Country,
	}
	return msg
}

// relevance maps keyword hits onto (0.6, 0.98].
func relevance(hits int) float64 {
	r := 0.6 + 0.12*float64(hits)
	if r > 0.98 {
		r = 0.98
	}
	return r
}

// fold lowercases s and strips diacritics so "Héritage" and "heritage" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// topicWords folds the question and keeps words long enough to carry a topic.
func topicWords(question string) []string {
	fields := strings.FieldsFunc(fold(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTopicRunes {
			words = append(words, f)
		}
	}
	return words
}

// countHits counts keywords present in words. Keywords of four runes or more
// also match as a prefix so plurals and derived forms count.
func countHits(words, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		kw = fold(kw)
		prefix := utf8.RuneCountInString(kw) >= 4
		for _, w := range words {
			if w == kw || (prefix && strings.HasPrefix(w, kw)) {
				hits++
				break
			}
		}
	}
	return hits
}

var defaultEntries = []Entry{
	{
		Keywords: []string{"travail", "licenciement", "salari", "employeur", "contrat", "préavis"},
		Summary:  "le contrat de travail, sa rupture et les droits du salarié sont régis par le Code du travail.",
		Source:   model.Source{Document: "Code du travail", Type: "Loi", Numero: "028-2008/AN", Lien: "https://www.legiburkina.bf/code-du-travail"},
	},
	{
		Keywords: []string{"salaire", "smig", "rémunération", "heures", "congé"},
		Summary:  "la rémunération minimale et la durée du travail sont fixées par voie réglementaire.",
		Source:   model.Source{Document: "Décret fixant le SMIG", Type: "Décret", Numero: "2006-655"},
	},
	{
		Keywords: []string{"mariage", "divorce", "époux", "famille", "pension", "garde"},
		Summary:  "le mariage, sa dissolution et l'autorité parentale relèvent du Code des personnes et de la famille.",
		Source:   model.Source{Document: "Code des personnes et de la famille", Type: "Zatu", Numero: "AN VII-13"},
	},
	{
		Keywords: []string{"succession", "héritage", "héritier", "testament", "décès"},
		Summary:  "la dévolution successorale et les testaments sont traités au livre des successions.",
		Source:   model.Source{Document: "Code des personnes et de la famille, livre III", Type: "Zatu", Numero: "AN VII-13"},
	},
	{
		Keywords: []string{"terrain", "foncier", "propriété", "parcelle", "titre"},
		Summary:  "l'accès à la terre et la sécurisation des droits fonciers sont organisés par la loi foncière.",
		Source:   model.Source{Document: "Réorganisation agraire et foncière", Type: "Loi", Numero: "034-2012/AN"},
	},
	{
		Keywords: []string{"bail", "loyer", "locataire", "bailleur", "logement"},
		Summary:  "le bail d'habitation et les obligations du bailleur et du locataire sont encadrés par la loi.",
		Source:   model.Source{Document: "Loi portant bail d'habitation privé", Type: "Loi", Numero: "103-2015/CNT"},
	},
	{
		Keywords: []string{"société", "entreprise", "commerce", "commerçant", "ohada"},
		Summary:  "la constitution et le fonctionnement des sociétés commerciales suivent l'Acte uniforme OHADA.",
		Source:   model.Source{Document: "Acte uniforme relatif au droit des sociétés commerciales", Type: "Acte uniforme", Lien: "https://www.ohada.org"},
	},
	{
		Keywords: []string{"impôt", "fiscal", "taxe", "tva", "déclaration"},
		Summary:  "l'assiette, le recouvrement et les contrôles des impôts figurent au Code général des impôts.",
		Source:   model.Source{Document: "Code général des impôts", Type: "Loi", Numero: "058-2017/AN"},
	},
	{
		Keywords: []string{"pénal", "infraction", "plainte", "prison", "amende", "délit"},
		Summary:  "les infractions et les peines applicables sont définies par le Code pénal.",
		Source:   model.Source{Document: "Code pénal", Type: "Loi", Numero: "025-2018/AN"},
	},
	{
		Keywords: []string{"constitution", "président", "élection", "assemblée"},
		Summary:  "l'organisation des pouvoirs publics est fixée par la Constitution.",
		Source:   model.Source{Document: "Constitution du 2 juin 1991"},
	},
}
