package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

// Renderer writes a PipelineResult in the supported output shapes. JSON is
// the machine-facing contract; Markdown and the summary are for operators.
type Renderer struct {
	includeFooter bool
}

func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON. An empty path writes to
// stdout.
func (r *Renderer) RenderJSON(res *model.PipelineResult, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return r.write(append(data, '\n'), path)
}

// RenderMarkdown writes a human-readable report. An empty path writes to
// stdout.
func (r *Renderer) RenderMarkdown(res *model.PipelineResult, path string) error {
	var b strings.Builder
	v := res

	fmt.Fprintf(&b, "# Triagem de ofício %s\n\n", v.SessionID)
	fmt.Fprintf(&b, "- Processado em: %s\n", v.ProcessedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Conteúdo: %s / %s\n", v.Classification.Kind, v.NoticeKind)
	fmt.Fprintf(&b, "- Relevante para a instituição: %s\n", yesNo(v.InScope))
	if v.Secrecy != "" {
		fmt.Fprintf(&b, "- Sigilo: %s\n", v.Secrecy)
	}
	if v.Urgent {
		b.WriteString("- **URGENTE**\n")
	}
	fmt.Fprintf(&b, "- Confiança final: %.2f\n", v.Confidence.Value)
	fmt.Fprintf(&b, "- Encaminhamento: %s\n\n", v.Routing)

	if len(v.Parties) > 0 {
		b.WriteString("## Investigados\n\n")
		for _, p := range v.Parties {
			line := fmt.Sprintf("- %s (%s)", orDash(p.Name), orDash(p.TaxID))
			if p.Customer != nil {
				if p.Customer.IsCustomer {
					line += " — cliente"
				} else {
					line += " — não cliente"
				}
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(v.Matches) > 0 {
		b.WriteString("## Subsídios solicitados\n\n")
		b.WriteString("| ID | Subsídio | Status | Confiança | Período | Obs |\n")
		b.WriteString("|----|----------|--------|-----------|---------|-----|\n")
		for _, m := range v.Matches {
			period := "-"
			if m.Period != nil {
				period = m.Period.Start + " a " + m.Period.End
			}
			var obs []string
			if m.CircularLetter != "" {
				obs = append(obs, m.CircularLetter)
			}
			if m.RequiresDePara {
				obs = append(obs, "DE/PARA")
			}
			if m.Available != nil && !*m.Available {
				obs = append(obs, "indisponível")
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %s | %s |\n",
				m.SubsidyID, m.Name, m.Status, m.Confidence, period, orDash(strings.Join(obs, ", ")))
		}
		b.WriteString("\n")
	}

	if len(v.Unmatched) > 0 {
		b.WriteString("## Trechos não resolvidos\n\n")
		for _, u := range v.Unmatched {
			fmt.Fprintf(&b, "- %q (melhor score %.2f)\n", u.Text, u.BestScore)
		}
		b.WriteString("\n")
	}

	if len(v.Alerts) > 0 {
		b.WriteString("## Alertas\n\n")
		for _, a := range v.Alerts {
			b.WriteString("- " + a + "\n")
		}
		b.WriteString("\n")
	}

	if len(v.Confidence.Deltas) > 0 {
		b.WriteString("## Fatores de confiança\n\n")
		for _, f := range v.Confidence.Deltas {
			fmt.Fprintf(&b, "- %s: %+.2f\n", f.Stage, f.Delta)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n_Gerado por triagem_\n")
	}

	return r.write([]byte(b.String()), path)
}

// RenderSummary prints a terse one-screen digest to w.
func (r *Renderer) RenderSummary(res *model.PipelineResult, w io.Writer) {
	v := res
	fmt.Fprintf(w, "Sessão:        %s\n", v.SessionID)
	fmt.Fprintf(w, "Conteúdo:      %s / %s\n", v.Classification.Kind, v.NoticeKind)
	fmt.Fprintf(w, "Relevante:     %s\n", yesNo(v.InScope))
	fmt.Fprintf(w, "Investigados:  %d\n", len(v.Parties))
	fmt.Fprintf(w, "Subsídios:     %d casados, %d pendentes\n", len(v.Matches), len(v.Unmatched))
	fmt.Fprintf(w, "Confiança:     %.2f\n", v.Confidence.Value)
	fmt.Fprintf(w, "Encaminhar:    %s\n", v.Routing)
	if v.Urgent {
		fmt.Fprintln(w, "URGENTE")
	}
	for _, a := range v.Alerts {
		fmt.Fprintf(w, "  ! %s\n", a)
	}
}

func (r *Renderer) write(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
