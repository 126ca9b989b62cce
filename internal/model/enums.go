package model

import (
	"fmt"
	"strings"
)

// ProjectStage is a position in the fixed research workflow. The order of AllProjectStages
// is the progression used for progress computation.
type ProjectStage string

const (
	StageIdeation  ProjectStage = "ideation"
	StageResearch  ProjectStage = "research"
	StageAnalysis  ProjectStage = "analysis"
	StageWriting   ProjectStage = "writing"
	StageReview    ProjectStage = "review"
	StagePublished ProjectStage = "published"
)

func AllProjectStages() []ProjectStage {
	return []ProjectStage{StageIdeation, StageResearch, StageAnalysis, StageWriting, StageReview, StagePublished}
}

type ProjectStatus string

const (
	StatusInProgress  ProjectStatus = "in_progress"
	StatusOnHold      ProjectStatus = "on_hold"
	StatusNeedsReview ProjectStatus = "needs_review"
	StatusCompleted   ProjectStatus = "completed"
	StatusArchived    ProjectStatus = "archived"
)

func AllProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusInProgress, StatusOnHold, StatusNeedsReview, StatusCompleted, StatusArchived}
}

type ProjectTemplate string

const (
	TemplateGeneral          ProjectTemplate = "general"
	TemplateLiteratureReview ProjectTemplate = "literature_review"
	TemplateThesis           ProjectTemplate = "thesis"
	TemplateGrantProposal    ProjectTemplate = "grant_proposal"
	TemplateJournalArticle   ProjectTemplate = "journal_article"
)

func AllProjectTemplates() []ProjectTemplate {
	return []ProjectTemplate{TemplateGeneral, TemplateLiteratureReview, TemplateThesis, TemplateGrantProposal, TemplateJournalArticle}
}

type DocumentType string

const (
	DocumentPDF      DocumentType = "pdf"
	DocumentDOCX     DocumentType = "docx"
	DocumentText     DocumentType = "txt"
	DocumentHTML     DocumentType = "html"
	DocumentMarkdown DocumentType = "markdown"
	DocumentImage    DocumentType = "image"
	DocumentOther    DocumentType = "other"
)

func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocumentPDF, DocumentDOCX, DocumentText, DocumentHTML, DocumentMarkdown, DocumentImage, DocumentOther}
}

type CitationType string

const (
	CitationBook            CitationType = "book"
	CitationJournalArticle  CitationType = "journal_article"
	CitationWebsite         CitationType = "website"
	CitationConferencePaper CitationType = "conference_paper"
	CitationThesis          CitationType = "thesis"
	CitationReport          CitationType = "report"
)

func AllCitationTypes() []CitationType {
	return []CitationType{CitationBook, CitationJournalArticle, CitationWebsite, CitationConferencePaper, CitationThesis, CitationReport}
}

type CitationStyle string

const (
	StyleAPA     CitationStyle = "apa"
	StyleMLA     CitationStyle = "mla"
	StyleChicago CitationStyle = "chicago"
	StyleHarvard CitationStyle = "harvard"
	StyleIEEE    CitationStyle = "ieee"
	StyleBibTeX  CitationStyle = "bibtex"
)

func AllCitationStyles() []CitationStyle {
	return []CitationStyle{StyleAPA, StyleMLA, StyleChicago, StyleHarvard, StyleIEEE, StyleBibTeX}
}

func ParseProjectStage(s string) (ProjectStage, error) {
	return parseEnum("stage", s, AllProjectStages())
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	return parseEnum("status", s, AllProjectStatuses())
}

func ParseProjectTemplate(s string) (ProjectTemplate, error) {
	return parseEnum("template", s, AllProjectTemplates())
}

func ParseDocumentType(s string) (DocumentType, error) {
	return parseEnum("document type", s, AllDocumentTypes())
}

func ParseCitationType(s string) (CitationType, error) {
	return parseEnum("citation type", s, AllCitationTypes())
}

func ParseCitationStyle(s string) (CitationStyle, error) {
	return parseEnum("citation style", s, AllCitationStyles())
}

// Label turns an enum id into a display label ("in_progress" -> "In Progress").
func Label[T ~string](v T) string {
	parts := strings.Fields(strings.ReplaceAll(string(v), "_", " "))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func parseEnum[T ~string](kind, s string, all []T) (T, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	norm = strings.ReplaceAll(norm, " ", "_")
	for _, v := range all {
		if string(v) == norm {
			return v, nil
		}
	}
	vals := make([]string, 0, len(all))
	for _, v := range all {
		vals = append(vals, string(v))
	}
	var zero T
	return zero, fmt.Errorf("invalid %s: %q (expected %s)", kind, s, strings.Join(vals, "|"))
}
