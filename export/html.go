package export

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/davidaknowles/schola/pubs"
)

// RenderHTML writes the interactive report page: summary line, sort
// selector, one card per publication with metrics, links and a collapsible
// abstract. Sorting happens client side.
func RenderHTML(w io.Writer, author string, ps []pubs.Publication) error {
	total := 0
	for i := range ps {
		total += ps[i].CitationCount
	}
	return reportTmpl.Execute(w, reportData{
		Author:         author,
		Publications:   ps,
		TotalCitations: total,
	})
}

type reportData struct {
	Author         string
	Publications   []pubs.Publication
	TotalCitations int
}

// HighlightAuthors renders the author list with the searched author bolded.
// The query is "LastName Initials"; a list entry matches when its last name
// equals the searched last name case-insensitively and its initials start
// with the searched initials.
func HighlightAuthors(authors []string, authorQuery string) template.HTML {
	queryFields := strings.Fields(authorQuery)
	var searchLast, searchInitials string
	if len(queryFields) > 0 {
		searchLast = strings.ToLower(queryFields[0])
	}
	if len(queryFields) > 1 {
		searchInitials = strings.ToLower(strings.Join(queryFields[1:], ""))
	}
	rendered := make([]string, 0, len(authors))
	for _, a := range authors {
		fields := strings.Fields(a)
		var last, initials string
		if len(fields) > 1 {
			last = strings.ToLower(strings.Join(fields[:len(fields)-1], " "))
			initials = strings.ToLower(fields[len(fields)-1])
		} else {
			last = strings.ToLower(a)
		}
		escaped := html.EscapeString(a)
		if last == searchLast && (searchInitials == "" || strings.HasPrefix(initials, searchInitials)) {
			rendered = append(rendered, "<strong>"+escaped+"</strong>")
		} else {
			rendered = append(rendered, escaped)
		}
	}
	return template.HTML(strings.Join(rendered, ", "))
}

// rcrDisplay shows the authoritative ratio when parseable, the imputed score
// otherwise, and N/A when neither carries information.
func rcrDisplay(p pubs.Publication) string {
	if v, err := strconv.ParseFloat(p.RCR, 64); err == nil {
		return fmt.Sprintf("%.2f", v)
	}
	if p.RCRImputed != 0 {
		return fmt.Sprintf("%.2f", p.RCRImputed)
	}
	return "N/A"
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"highlight": HighlightAuthors,
	"rcr":       rcrDisplay,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Publications - {{.Author}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
            line-height: 1.6;
        }
        h1 { color: #333; border-bottom: 3px solid #0066cc; padding-bottom: 10px; }
        .controls, .summary {
            background: white;
            padding: 15px;
            margin-bottom: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            font-size: 14px;
        }
        .controls label { margin-right: 10px; font-weight: 600; }
        .controls select { padding: 5px 10px; border: 1px solid #ddd; border-radius: 4px; font-size: 14px; }
        .publication {
            background: white;
            padding: 20px;
            margin-bottom: 15px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            transition: box-shadow 0.3s;
        }
        .publication:hover { box-shadow: 0 4px 8px rgba(0,0,0,0.15); }
        .title { font-size: 18px; font-weight: 600; color: #0066cc; margin-bottom: 8px; cursor: pointer; }
        .title:hover { text-decoration: underline; }
        .authors { color: #555; margin-bottom: 5px; font-size: 14px; }
        .meta { color: #666; font-size: 14px; margin-bottom: 10px; }
        .journal { font-style: italic; }
        .metrics { display: flex; gap: 20px; margin-bottom: 10px; font-size: 14px; }
        .metric { background: #f0f7ff; padding: 5px 10px; border-radius: 4px; border-left: 3px solid #0066cc; }
        .metric strong { color: #0066cc; }
        .abstract {
            display: none;
            margin-top: 15px;
            padding: 15px;
            background: #f9f9f9;
            border-left: 4px solid #0066cc;
            border-radius: 4px;
            color: #444;
            font-size: 14px;
        }
        .abstract.show { display: block; }
        .links { margin-top: 10px; }
        .link { display: inline-block; margin-right: 15px; color: #0066cc; text-decoration: none; font-size: 14px; }
        .link:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1>Publications - {{.Author}}</h1>

    <div class="summary">
        <strong>Total Publications:</strong> {{len .Publications}} |
        <strong>Total Citations:</strong> {{.TotalCitations}}
    </div>

    <div class="controls">
        <label for="sortBy">Sort by:</label>
        <select id="sortBy" onchange="sortPublications()">
            <option value="year">Year (newest first)</option>
            <option value="citations">Citations (most cited first)</option>
            <option value="rcr" selected>RCR (highest first)</option>
        </select>
    </div>

    <div id="publications">
{{$author := .Author}}
{{range $i, $p := .Publications}}
        <div class="publication" data-year="{{$p.Year}}" data-citations="{{$p.CitationCount}}" data-rcr="{{$p.RCRImputed}}">
            <div class="title" onclick="toggleAbstract({{$i}})">{{$p.Title}}</div>
            <div class="authors">{{highlight $p.Authors $author}}</div>
            <div class="meta">
                <span class="journal">{{$p.Journal}}</span> ({{$p.Year}})
            </div>
            <div class="metrics">
                <div class="metric"><strong>Citations:</strong> {{$p.CitationCount}}</div>
                <div class="metric"><strong>RCR:</strong> {{rcr $p}}</div>
            </div>
            <div class="links">
                <a href="{{$p.SourceURL}}" target="_blank" class="link">&#128196; PubMed</a>
{{if $p.DOI}}                <a href="{{$p.DOIURL}}" target="_blank" class="link">&#128279; DOI</a>
{{end}}                <a href="#" onclick="toggleAbstract({{$i}}); return false;" class="link">&#128214; Abstract</a>
            </div>
            <div class="abstract" id="abstract-{{$i}}">
                <strong>Abstract:</strong><br>
                {{$p.Abstract}}
            </div>
        </div>
{{end}}
    </div>

    <script>
        function toggleAbstract(id) {
            const abstract = document.getElementById('abstract-' + id);
            abstract.classList.toggle('show');
        }

        function sortPublications() {
            const sortBy = document.getElementById('sortBy').value;
            const container = document.getElementById('publications');
            const pubs = Array.from(container.getElementsByClassName('publication'));

            pubs.sort((a, b) => {
                if (sortBy === 'year') {
                    return (parseInt(b.getAttribute('data-year')) || 0) - (parseInt(a.getAttribute('data-year')) || 0);
                } else if (sortBy === 'citations') {
                    return (parseInt(b.getAttribute('data-citations')) || 0) - (parseInt(a.getAttribute('data-citations')) || 0);
                } else if (sortBy === 'rcr') {
                    return (parseFloat(b.getAttribute('data-rcr')) || 0) - (parseFloat(a.getAttribute('data-rcr')) || 0);
                }
                return 0;
            });

            container.innerHTML = '';
            pubs.forEach(pub => container.appendChild(pub));
        }

        window.addEventListener('DOMContentLoaded', () => {
            document.getElementById('sortBy').value = 'rcr';
            sortPublications();
        });
    </script>
</body>
</html>
`))
