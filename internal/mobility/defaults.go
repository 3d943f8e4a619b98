package mobility

// Defaults returns the built-in mobility table. Each call returns a fresh
// copy.
func Defaults() []Mobility {
	return []Mobility{
		{
			Slug:             "first-meeting",
			Title:            "First Meeting",
			Date:             "2024-10",
			DateLabel:        "October 2024",
			Host:             "All Partners",
			Country:          "Online",
			ShortDescription: "Project launch and initial planning",
			LongDescription: "The TSST project officially launched with a first meeting bringing together all partner organizations. " +
				"This meeting established the project timeline, roles, and coordination mechanisms. " +
				"Partners aligned on the Gantt chart, work package responsibilities, and communication channels for the 24-month collaboration.",
			Variant: VariantPrimaryDark,
		},
		{
			Slug:             "kickoff-macedonia",
			Title:            "Kick-off Meeting in North Macedonia",
			Date:             "2025-02",
			DateLabel:        "February 2025",
			Host:             "Xanadu Art",
			Country:          "North Macedonia",
			ShortDescription: "In-person kick-off with partner presentations and MBAT introduction",
			LongDescription: "Xanadu Art hosted the kick-off meeting in North Macedonia, bringing together all project partners. " +
				"The meeting featured presentations from each organisation, including the AI-powered chatbot app (BYC/Ilhan), " +
				"Bright Youth Community and Tackling Self-Stigma Together (Dilek), dance as a tool against self-stigmatisation, and Xanadu Art’s work. " +
				"Workshops by Aleksandar and detailed reports and surveys rounded off the event.",
			Variant: VariantPrimary,
			Sections: []Section{
				TextSection{Content: "The kick-off in North Macedonia brought all TSST partners together for the first in-person meeting. " +
					"Below are photos from the event and key documents."},
				MediaSection{Refs: MediaRefs{Images: []int{0, 1, 2}, PDFs: []int{0}}},
				TextSection{Content: "Partner presentations included the AI-powered chatbot app (Ilhan, BYC), Bright Youth Community and " +
					"Tackling Self-Stigma Together (Dilek), dance as a tool against self-stigmatisation, and Xanadu Art. " +
					"Logos and branding materials were shared in the Key Documents."},
				MediaSection{Refs: MediaRefs{Images: []int{3, 4, 5}, PDFs: []int{1, 2}}},
				TextSection{Content: "Aleksandar’s workshop materials (Daniel, Mia, Olivia) and reports from the meeting are available below. " +
					"You can view or download all presentations and the detailed report."},
				MediaSection{Refs: MediaRefs{Images: []int{6, 7, 8}, PDFs: []int{3, 4, 5}}},
			},
		},
		{
			Slug:             "sevilla-ltta",
			Title:            "Sevilla Training Activity (LTTA)",
			Date:             "2025-08",
			DateLabel:        "August 2025",
			Host:             "Sonríe a Europa",
			Country:          "Spain",
			ShortDescription: "Turkish team activities: BYC Programme, Faces of the Inner World, and paper-based design",
			LongDescription: "The Sevilla LTTA featured the Turkish team’s activities: the BYC Programme (presentation and PDF), " +
				"Faces of the Inner World, and paper-based new feature design and print-out materials. " +
				"These resources support the integration of creative and participatory methods in youth work.",
			Variant: VariantPrimary,
			Sections: []Section{
				TextSection{Content: "The Sevilla Training Activity (LTTA) included sessions led by the Turkish team. " +
					"Below you can find the BYC Programme presentation and supporting PDFs."},
				MediaSection{Refs: MediaRefs{PPTs: []int{0}, PDFs: []int{0, 1}}},
				TextSection{Content: "Faces of the Inner World and paper-based design materials are available for download, " +
					"along with the group workshop and print-out resources."},
				MediaSection{Refs: MediaRefs{PDFs: []int{2, 3, 4, 5, 6, 7}}},
			},
		},
		{
			Slug:             "kickoff-curacao",
			Title:            "Curaçao LTTA",
			Date:             "2025-11",
			DateLabel:        "November 2025",
			Host:             "ASEAC",
			Country:          "Curaçao",
			ShortDescription: "3 days of activities facilitating active participation",
			LongDescription: "ASEAC hosted the LTTA in Curaçao, with three days of activities designed to facilitate active participation of all project team members. " +
				"The meeting strengthened cross-cultural collaboration and allowed partners to plan and share outcomes from the project.",
			Variant: VariantPrimary,
		},
		{
			Slug:             "virtual-mobility",
			Title:            "Virtual Mobility (Virtual LTTA)",
			Date:             "2026-01",
			DateLabel:        "January 2026",
			Host:             "All Partners",
			Country:          "Online",
			ShortDescription: "Understanding AI: from basics to breakthroughs, and EmpowerMe URL",
			LongDescription: "The virtual mobility (Virtual LTTA) brought partners together online for a session on “Understanding AI: from basics to breakthroughs”. " +
				"The recording and screenshots document the session; the EmpowerMe URL resource is available for download.",
			Variant: VariantPrimary,
			Sections: []Section{
				TextSection{Content: "The Virtual Mobility (Virtual LTTA) focused on understanding AI and its role in the project. " +
					"Watch the presentation video and browse screenshots from the session."},
				MediaSection{Refs: MediaRefs{Videos: []int{0}, Images: []int{0, 1, 2, 3}}},
				TextSection{Content: "The EmpowerMe URL resource and additional screenshots from the meeting are available below."},
				MediaSection{Refs: MediaRefs{PDFs: []int{0}, Images: []int{4, 5, 6, 7, 8}}},
			},
		},
	}
}

// DefaultRegistry returns a registry over Defaults.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Defaults())
	if err != nil {
		panic("mobility: invalid built-in table: " + err.Error())
	}
	return r
}
