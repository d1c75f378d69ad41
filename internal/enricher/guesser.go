package enricher

// genericDepartments are the inboxes most companies route sponsorship mail
// through, tried when no human contact could be found.
var genericDepartments = []string{"partnerships", "marketing", "press", "creators"}

const genericRole = "Department Generic"

// GenericLeads fabricates department addresses for the domain as a last
// resort. They are unverified guesses, marked with a dedicated role so the
// UI can present them accordingly.
func GenericLeads(domain string) []Lead {
	leads := make([]Lead, 0, len(genericDepartments))
	for _, dept := range genericDepartments {
		leads = append(leads, Lead{
			Role:  genericRole,
			Email: dept + "@" + domain,
		})
	}
	return leads
}
