package validate

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the review request as a Portuguese instruction block.
// The response contract is JSON-only; anything else fails schema validation
// and the caller falls back to Stage A.
func BuildPrompt(req ReviewRequest) string {
	var b strings.Builder

	b.WriteString("Você é um especialista em análise de ofícios judiciais de quebra de sigilo bancário.\n")
	b.WriteString("Sua tarefa é validar a extração de subsídios (tipos de documentos solicitados) de um ofício.\n\n")

	b.WriteString("## OFÍCIO (trecho relevante para a instituição financeira):\n```\n")
	b.WriteString(req.ScopedText)
	b.WriteString("\n```\n\n")

	b.WriteString("## SUBSÍDIOS JÁ IDENTIFICADOS PELO SISTEMA:\n")
	if len(req.Matches) == 0 {
		b.WriteString("Nenhum match identificado\n")
	}
	for i, m := range req.Matches {
		fmt.Fprintf(&b, "Match %d: %s (ID: %s, Score: %.2f)\n  Texto encontrado: %q\n",
			i+1, m.Name, m.SubsidyID, m.Similarity, m.Evidence)
	}
	b.WriteString("\n## FRAGMENTOS NÃO IDENTIFICADOS:\n")
	if len(req.Unmatched) == 0 {
		b.WriteString("Nenhum\n")
	}
	for _, u := range req.Unmatched {
		fmt.Fprintf(&b, "- %s\n", u.Text)
	}

	fmt.Fprintf(&b, "\n## CATÁLOGO DE SUBSÍDIOS DISPONÍVEIS (%d entradas):\n", len(req.Catalog))
	for _, e := range req.Catalog {
		fmt.Fprintf(&b, "ID: %s | Nome: %s | Descrição: %s\n", e.ID, e.Name, e.Description)
	}

	b.WriteString(`
## SUAS TAREFAS:
1. Para cada match, diga se ele faz sentido no contexto do ofício, com a frase EXATA onde aparece.
2. Identifique subsídios solicitados que NÃO estão na lista de matches; mapeie para um ID do catálogo ou marque como novo.
3. Mapeie os fragmentos não identificados para o catálogo quando possível.

## FORMATO DE RESPOSTA:
Retorne APENAS um objeto JSON válido:
{
  "verdicts": [
    {"subsidy_id": "1", "valid": true, "confidence": 0.95, "evidence": "frase exata do ofício", "rationale": "...", "example_suggestion": "texto curto e genérico"}
  ],
  "new_requests": [
    {"text": "o que foi solicitado", "evidence": "frase exata", "suggested_id": "3", "novel": false, "rationale": "..."}
  ],
  "complete": true,
  "confidence": 0.9,
  "notes": ""
}

## INSTRUÇÕES IMPORTANTES:
1. Seja rigoroso: rejeite matches que não fazem sentido.
2. Extraia a frase EXATA do ofício, sem parafrasear.
3. Use apenas IDs presentes no catálogo acima; se não existir, marque novel=true e deixe suggested_id vazio.
4. Confidence reflete sua certeza (0.0 a 1.0).
5. Retorne APENAS o JSON, sem texto adicional.
`)
	return b.String()
}
