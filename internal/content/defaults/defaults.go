// Package defaults holds the static default document of every home page section.
//
// The public renderer falls back to these when the store has no visible
// sections, and the seed command inserts them as the initial rows, so the
// editor always starts from the same shapes the templates expect.
package defaults

import (
	"strconv"

	"github.com/folio-cms/folio/internal/content"
)

// PageHome is the page key of the public landing page.
const PageHome = "home"

// Section keys rendered by the home page templates.
const (
	KeyHero           = "hero"
	KeyAdvocacy       = "advocacy"
	KeyGalleryOne     = "gallery-1"
	KeyAbout          = "about"
	KeyEducation      = "education"
	KeyExperience     = "experience"
	KeyCertifications = "certifications"
	KeyGalleryTwo     = "gallery-2"
	KeyContact        = "contact"
)

// Order is the render order of the home page sections.
var Order = []string{
	KeyHero,
	KeyAdvocacy,
	KeyGalleryOne,
	KeyAbout,
	KeyEducation,
	KeyExperience,
	KeyCertifications,
	KeyGalleryTwo,
	KeyContact,
}

// For returns a fresh copy of the default document for sectionKey.
func For(sectionKey string) (content.Document, bool) {
	doc, ok := table[sectionKey]
	if !ok {
		return nil, false
	}

	return doc.Clone(), true
}

// Sections returns the default home page as unsaved sections in render order.
// The returned sections carry no ID.
func Sections() []content.Section {
	out := make([]content.Section, 0, len(Order))

	for i, key := range Order {
		doc, _ := For(key)
		out = append(out, content.Section{
			SectionKey: key,
			PageKey:    PageHome,
			OrderIndex: i + 1,
			IsVisible:  true,
			Payload:    doc,
		})
	}

	return out
}

func galleryImages(alts []string, offset int) []any {
	out := make([]any, 0, len(alts))

	for i, alt := range alts {
		out = append(out, map[string]any{
			"src": "/images/gallery-" + strconv.Itoa(offset+i) + ".jpg",
			"alt": alt,
		})
	}

	return out
}

var table = map[string]content.Document{
	KeyHero: {
		"title":          "Processing Solutions *Made Easy*",
		"subtitle":       "*REDDEX* CHECKOUT",
		"description":    "Securely manage your account - anywhere at anytime.",
		"portrait_image": "/images/portrait.jpg",
		"stats": []any{
			map[string]any{"value": "1K+", "label": "Students Reached"},
			map[string]any{"value": "5+", "label": "Leadership Roles"},
			map[string]any{"value": "3", "label": "Countries"},
			map[string]any{"value": "10+", "label": "Certifications"},
		},
	},
	KeyAdvocacy: {
		"label": "*what* i stand for",
		"title": "advocacy in *action*",
		"items": []any{
			map[string]any{
				"tag":   "health equity",
				"title": "menstrual hygiene is a right",
				"description": "taking it to the streets, mobilising students to hold placards and demand that " +
					"menstrual health is recognised as a fundamental health right for every girl in nigeria.",
				"link": "",
			},
			map[string]any{
				"tag":   "continental advocacy",
				"title": "voices for universal health coverage",
				"description": "championing uhc across africa through strategic advocacy and youth empowerment, " +
					"ensuring no one is left behind in the journey to health for all.",
				"link": "",
			},
			map[string]any{
				"tag":   "community outreach",
				"title": "from campus to community",
				"description": "bridging the gap between medical education and real community health needs " +
					"through outreach programmes, health screenings, and health education campaigns.",
				"link": "",
			},
		},
	},
	KeyGalleryOne: {
		"title":    "In the Field",
		"subtitle": "Visual Stories",
		"images":   galleryImages([]string{"Teaching", "Students", "Outreach", "Demonstration", "Community"}, 1),
		"caption": "Moments captured during health advocacy campaigns and community outreach " +
			"programmes across Nigeria.",
	},
	KeyAbout: {
		"title":   "*About* Me",
		"heading": "Medical Student &\n*Health Advocate*",
		"paragraphs": []any{
			"I am a medical student at All Saints University School of Medicine in Dominica, with prior " +
				"studies at Bingham University, Nigeria. My journey in medicine is deeply intertwined with my " +
				"passion for health advocacy and community empowerment.",
			"From leading menstrual hygiene campaigns on Nigerian streets to championing universal health " +
				"coverage across the African continent, I believe in the transformative power of " +
				"evidence-informed policy change and grassroots mobilisation.",
		},
		"photo": "/images/portrait.jpg",
		"qualities": []any{
			map[string]any{"label": "Clinical Work in Dominica", "desc": "Hands-on clinical training and patient care"},
			map[string]any{"label": "Continental Health Advocacy", "desc": "Championing UHC and health equity across Africa"},
			map[string]any{"label": "Community Outreach", "desc": "Bridging education with real-world health needs"},
		},
	},
	KeyEducation: {
		"title": "Education",
		"label": "01 · Academic Journey",
		"list": []any{
			map[string]any{
				"degree": "Doctor of Medicine (MD)",
				"school": "All Saints University School of Medicine, Dominica",
				"year":   "2025 - Present",
			},
			map[string]any{
				"degree": "MBBS, Bachelor of Medicine & Surgery",
				"school": "Bingham University, Nigeria",
				"year":   "2022 - 2025",
			},
			map[string]any{
				"degree": "West African Senior School Certificate",
				"school": "Stella Maris College · NECO",
				"year":   "2020",
			},
		},
	},
	KeyExperience: {
		"title": "Experience",
		"label": "02 · Professional Path",
		"list": []any{
			map[string]any{
				"role":   "EV4GH Fellow",
				"org":    "Emerging Voices for Global Health",
				"period": "2026",
				"description": "Selected as a fellow for the Emerging Voices for Global Health programme, " +
					"contributing to health policy discourse.",
			},
			map[string]any{
				"role":   "Health Advocacy Lead",
				"org":    "NIMSA, Nigerian Medical Students Association",
				"period": "2023 - 2025",
				"description": "Led health advocacy campaigns including menstrual hygiene awareness, UHC " +
					"advocacy, and community health screenings reaching over 1,000 students.",
			},
			map[string]any{
				"role":   "Community Health Volunteer",
				"org":    "Various NGOs, Nigeria",
				"period": "2022 - 2025",
				"description": "Participated in community outreach programmes, health education campaigns, " +
					"and first aid training across rural and urban communities.",
			},
		},
	},
	KeyCertifications: {
		"title": "Certifications &\n*Training*",
		"label": "03 · Continuous Learning",
		"list": []any{
			"WHO, Health Systems Strengthening (2024)",
			"Bingham University MSA, First Aid & CPR (2024)",
			"NIMSA Research Training (2024)",
			"Geneva Foundation, Sexual Health Training (2024)",
		},
		"highlight_title": "Lifelong Learner",
		"highlight_desc": "Committed to continuous professional development through workshops, conferences, " +
			"and online certifications in global health, research methodology, and clinical skills.",
	},
	KeyGalleryTwo: {
		"title":    "Moments of Impact",
		"subtitle": "More Stories",
		"images":   galleryImages([]string{"Field Work", "Conference", "Teamwork", "Advocacy", "Healthcare"}, 6),
		"caption": "From conferences to community health screenings, every moment counts in the journey " +
			"towards health equity.",
	},
	KeyContact: {
		"label": "Get In Touch",
		"title": "Let's Build a\n*Healthier Future*",
		"description": "Interested in collaborating on health advocacy, research, or community outreach? " +
			"I would love to hear from you.",
		"links": []any{
			map[string]any{"label": "Email Me", "url": "mailto:hello@example.com", "is_external": true},
			map[string]any{"label": "LinkedIn", "url": "https://linkedin.com", "is_external": true},
		},
		"footer_name": "Portfolio Owner",
		"footer_text": "Portfolio",
	},
}
