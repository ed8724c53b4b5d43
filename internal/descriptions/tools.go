package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with practical examples

const (
	AuditFileDescription = `Audit a Brazilian traffic citation (auto de infração, AIT) PDF against the MBFT rulebook sheet for its infraction code.

**When to use:** You have the citation PDF and want to know whether its observation field describes the conduct the way the MBFT (Manual Brasileiro de Fiscalização de Trânsito) requires.

**What it reports:** infraction code, observation text, rulebook sheet used, similarity verdict (CONSISTENT, PARTIAL, DIVERGENT, NOT_FOUND), missing formal fields (place, date, time, plate), and the likely legal consequence.

**Examples:**
• "Audit ait-2024-0001.pdf"
• "Check whether the observation in autos/multa.pdf matches the MBFT"

**Best practices:** Paths are relative to the citation directory. When the result says no rulebook was found, add the sheet named after the code (e.g. 518-51.pdf) to the rulebook directory.`

	AuditTextDescription = `Audit citation text that was already extracted, e.g. pasted from an OCR tool.

**When to use:** The citation is not available as a text PDF, or the text has been corrected by hand.

**Examples:**
• "Audit this citation: ÓRGÃO AUTUADOR: DETRAN-SP ... OBSERVAÇÕES: condutor sem cinto"

**Best practices:** Keep the original line breaks; section headings at the start of a line end the observation field.`

	ExtractFieldsDescription = `Extract the fields of a citation PDF without consulting the rulebooks.

**When to use:** To check what the auditor reads from a citation before running a full audit, or to debug a citation whose code is not detected.

**What it reports:** infraction code, issuing authority, conduct description and observation, plus page and form-field counts.`

	RulebookContextDescription = `Show what the MBFT rulebook sheet for an infraction code says about the observation field.

**When to use:** To read the examples the MBFT gives for a code and whether it makes the observation content mandatory.

**Examples:**
• "What does the MBFT require for 518-51?"
• "Show the rulebook context for code 60503"

**Best practices:** Codes may be given with or without the hyphen.`

	ListRulebooksDescription = `List the MBFT rulebook sheets available to the auditor, with the infraction code inferred from each file name.

**When to use:** Before auditing, to confirm that the sheet for a code is present.`

	ServerInfoDescription = `Get server information: configured directories, limits, available tools and usage guidance.

**When to use:** First call in a new session, or when a tool reports a path outside the configured directories.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"mbft_audit_file":       AuditFileDescription,
	"mbft_audit_text":       AuditTextDescription,
	"mbft_extract_fields":   ExtractFieldsDescription,
	"mbft_rulebook_context": RulebookContextDescription,
	"mbft_list_rulebooks":   ListRulebooksDescription,
	"mbft_server_info":      ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
