package convert

import (
	"fmt"
	"strings"

	"github.com/davidaknowles/schola/pubs"
	"github.com/davidaknowles/schola/schema/pubmed"
)

// sourceURLFormat derives the canonical PubMed link from the PMID.
const sourceURLFormat = "https://pubmed.ncbi.nlm.nih.gov/%s/"

// ArticleToPublication converts a raw efetch record into a canonical
// publication. Mandatory are the PMID and a non-empty article container;
// everything else degrades to empty values.
func ArticleToPublication(doc *pubmed.Article) (*pubs.Publication, error) {
	pmid := doc.PMID()
	if pmid == "" {
		return nil, ErrSkipNoPMID
	}
	article := &doc.MedlineCitation.Article
	if article.ArticleTitle == "" && article.Journal.Title == "" && len(article.AuthorList.Author) == 0 {
		return nil, ErrSkipNoArticle
	}
	p := &pubs.Publication{
		PMID:      pmid,
		Title:     strings.TrimSpace(article.ArticleTitle),
		Journal:   strings.TrimSpace(article.Journal.Title),
		Year:      doc.Year(),
		DOI:       doc.DOI(),
		Abstract:  doc.AbstractText(),
		SourceURL: fmt.Sprintf(sourceURLFormat, pmid),
	}
	for _, author := range article.AuthorList.Author {
		switch {
		case author.LastName != "" && author.Initials != "":
			p.Authors = append(p.Authors, author.LastName+" "+author.Initials)
		case author.CollectiveName != "":
			p.Authors = append(p.Authors, strings.TrimSpace(author.CollectiveName))
		}
	}
	return p, nil
}
