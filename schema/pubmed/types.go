package pubmed

import (
	"encoding/xml"
	"strings"
)

// ESearchResult is the JSON response of the esearch endpoint, reduced to the
// fields we consume.
type ESearchResult struct {
	Result struct {
		Count  string   `json:"count"`
		RetMax string   `json:"retmax"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// ArticleSet is the efetch XML envelope.
type ArticleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is a single PubmedArticle record from efetch.
type Article struct {
	MedlineCitation struct {
		PMID struct {
			Text    string `xml:",chardata"`
			Version string `xml:"Version,attr"`
		} `xml:"PMID"`
		Article struct {
			Journal struct {
				Title        string `xml:"Title"` // Nature genetics, ...
				JournalIssue struct {
					PubDate struct {
						Year        string `xml:"Year"`        // 2020
						Month       string `xml:"Month"`       // Jan
						MedlineDate string `xml:"MedlineDate"` // 2020 Jan-Feb
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			ArticleTitle string `xml:"ArticleTitle"`
			Abstract     struct {
				AbstractText []AbstractText `xml:"AbstractText"`
			} `xml:"Abstract"`
			AuthorList struct {
				Author []Author `xml:"Author"`
			} `xml:"AuthorList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		ArticleIdList struct {
			ArticleId []ArticleId `xml:"ArticleId"`
		} `xml:"ArticleIdList"`
	} `xml:"PubmedData"`
}

// AbstractText is one fragment of a possibly structured abstract.
type AbstractText struct {
	Label string `xml:"Label,attr"` // BACKGROUND, METHODS, ...
	Text  string `xml:",chardata"`
}

// Author is one entry of the author list, either a person or a collective.
type Author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

// ArticleId is a typed external identifier, e.g. doi, pmc, pii.
type ArticleId struct {
	IdType string `xml:"IdType,attr"`
	Text   string `xml:",chardata"`
}

// PMID returns the record identifier.
func (a *Article) PMID() string {
	return strings.TrimSpace(a.MedlineCitation.PMID.Text)
}

// Year returns the publication year, falling back to the first token of the
// free text MedlineDate field, e.g. "2020 Jan-Feb". May be empty.
func (a *Article) Year() string {
	pd := a.MedlineCitation.Article.Journal.JournalIssue.PubDate
	if pd.Year != "" {
		return pd.Year
	}
	if fields := strings.Fields(pd.MedlineDate); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// DOI returns the first article id typed "doi", or the empty string.
func (a *Article) DOI() string {
	for _, id := range a.PubmedData.ArticleIdList.ArticleId {
		if id.IdType == "doi" {
			return strings.TrimSpace(id.Text)
		}
	}
	return ""
}

// AbstractText joins abstract fragments with a single space, in given order.
func (a *Article) AbstractText() string {
	parts := a.MedlineCitation.Article.Abstract.AbstractText
	ss := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p.Text); s != "" {
			ss = append(ss, s)
		}
	}
	return strings.Join(ss, " ")
}
