// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperID is the service's opaque paper identifier (a Semantic Scholar SHA).
type PaperID = string

// Graph is the citation graph document built by the service around a start paper.
// The polling client never inspects it; callers decode it on demand with
// GraphResponse.DecodeGraph.
type Graph struct {
	StartID          PaperID             `json:"start_id" yaml:"start_id"`
	Nodes            map[PaperID]Paper   `json:"nodes" yaml:"nodes"`
	Edges            []Edge              `json:"edges" yaml:"edges"`
	PathLengths      map[PaperID]float64 `json:"path_lengths" yaml:"path_lengths"`
	CommonAuthors    []CommonAuthor      `json:"common_authors" yaml:"common_authors"`
	CommonCitations  []CommonPaper       `json:"common_citations" yaml:"common_citations"`
	CommonReferences []CommonPaper       `json:"common_references" yaml:"common_references"`
}

// Edge is a weighted similarity link, encoded on the wire as [from, to, weight].
type Edge []any

// Endpoints returns the two paper ids and the weight of the edge. ok is false
// when the edge does not have the expected shape.
func (e Edge) Endpoints() (from, to PaperID, weight float64, ok bool) {
	if len(e) != 3 {
		return "", "", 0, false
	}
	from, ok1 := e[0].(string)
	to, ok2 := e[1].(string)
	weight, ok3 := e[2].(float64)
	return from, to, weight, ok1 && ok2 && ok3
}

// Author is a paper author as listed in the graph.
type Author struct {
	IDs  []*string `json:"ids" yaml:"ids"`
	Name string    `json:"name" yaml:"name"`
}

// ExternalIDs holds identifiers of the paper in other catalogs.
type ExternalIDs struct {
	ACL           *string `json:"ACL" yaml:"acl,omitempty"`
	ArXiv         *string `json:"ArXiv" yaml:"arxiv,omitempty"`
	CorpusID      any     `json:"CorpusId" yaml:"corpus_id,omitempty"`
	DBLP          *string `json:"DBLP" yaml:"dblp,omitempty"`
	DOI           *string `json:"DOI" yaml:"doi,omitempty"`
	MAG           *string `json:"MAG" yaml:"mag,omitempty"`
	PubMed        *string `json:"PubMed" yaml:"pubmed,omitempty"`
	PubMedCentral *string `json:"PubMedCentral" yaml:"pubmed_central,omitempty"`
}

// BasePaper holds the metadata shared by graph nodes and common citations/references.
type BasePaper struct {
	ID               PaperID     `json:"id" yaml:"id"`
	PaperID          PaperID     `json:"paperId" yaml:"paper_id"`
	Title            string      `json:"title" yaml:"title"`
	Abstract         *string     `json:"abstract" yaml:"abstract,omitempty"`
	ArxivID          *string     `json:"arxivId" yaml:"arxiv_id,omitempty"`
	Authors          []Author    `json:"authors" yaml:"authors"`
	CorpusID         int64       `json:"corpusid" yaml:"corpus_id"`
	DOI              *string     `json:"doi" yaml:"doi,omitempty"`
	ExternalIDs      ExternalIDs `json:"externalIds" yaml:"external_ids"`
	FieldsOfStudy    []string    `json:"fieldsOfStudy" yaml:"fields_of_study,omitempty"`
	IsOpenAccess     *bool       `json:"isOpenAccess" yaml:"is_open_access,omitempty"`
	JournalName      *string     `json:"journalName" yaml:"journal_name,omitempty"`
	JournalPages     *string     `json:"journalPages" yaml:"journal_pages,omitempty"`
	JournalVolume    *string     `json:"journalVolume" yaml:"journal_volume,omitempty"`
	MagID            *string     `json:"magId" yaml:"mag_id,omitempty"`
	NumberOfAuthors  int         `json:"number_of_authors" yaml:"number_of_authors"`
	PDFURLs          []string    `json:"pdfUrls" yaml:"pdf_urls,omitempty"`
	PMID             *string     `json:"pmid" yaml:"pmid,omitempty"`
	PublicationDate  *string     `json:"publicationDate" yaml:"publication_date,omitempty"`
	PublicationTypes []string    `json:"publicationTypes" yaml:"publication_types,omitempty"`
	TLDR             *string     `json:"tldr" yaml:"tldr,omitempty"`
	URL              string      `json:"url" yaml:"url"`
	Venue            *string     `json:"venue" yaml:"venue,omitempty"`
	Year             *int        `json:"year" yaml:"year,omitempty"`
}

// Paper is a node of the graph.
type Paper struct {
	BasePaper  `yaml:",inline"`
	Path       []PaperID `json:"path" yaml:"path"`
	PathLength float64   `json:"path_length" yaml:"path_length"`
	Pos        []float64 `json:"pos" yaml:"pos"`
}

// CommonPaper is a paper cited by, or citing, many graph nodes. Exactly one of
// LocalReferences (for common citations) and LocalCitations (for common
// references) is populated.
type CommonPaper struct {
	BasePaper       `yaml:",inline"`
	EdgesCount      int       `json:"edges_count" yaml:"edges_count"`
	LocalReferences []PaperID `json:"local_references,omitempty" yaml:"local_references,omitempty"`
	LocalCitations  []PaperID `json:"local_citations,omitempty" yaml:"local_citations,omitempty"`
	PaperIDAlias    PaperID   `json:"paper_id" yaml:"-"`
	PIName          *string   `json:"pi_name" yaml:"pi_name,omitempty"`
}

// CommonAuthor is an author appearing on several graph nodes.
type CommonAuthor struct {
	ID             string    `json:"id" yaml:"id"`
	MentionIndexes []int     `json:"mention_indexes" yaml:"mention_indexes"`
	Mentions       []PaperID `json:"mentions" yaml:"mentions"`
	Name           string    `json:"name" yaml:"name"`
	URL            string    `json:"url" yaml:"url"`
}
