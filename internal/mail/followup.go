package mail

import "fmt"

// followUpView is the template input of a check-in email.
type followUpView struct {
	Subject    string
	Heading    string
	Paragraphs []string
}

// FollowUp renders the check-in sent days after the assessment. Days 1, 7
// and 30 have dedicated messages; any other day gets a generic check-in.
func FollowUp(d EmailData, days int) (Template, error) {
	lang := d.language()
	var v followUpView
	switch days {
	case 1:
		v = followUpView{
			Subject: fmt.Sprintf("Day 1: How's your %s journey going? 🌟", lang),
			Heading: "Day 1 Check-in",
			Paragraphs: []string{
				fmt.Sprintf("How did your first day with your personalized %s plan go?", lang),
				"Remember, consistency beats perfection. Even if you only managed 10 minutes today, that's 10 minutes more than yesterday!",
			},
		}
	case 7:
		v = followUpView{
			Subject: fmt.Sprintf("Week 1: Your %s progress update 📈", lang),
			Heading: "Week 1 Progress Check",
			Paragraphs: []string{
				fmt.Sprintf("Congratulations on completing your first week! How are you feeling about your %s routine?", lang),
				"This is where most people either solidify their habit or start to struggle. What's working well for you?",
			},
		}
	case 30:
		v = followUpView{
			Subject: fmt.Sprintf("Month 1: Time to level up your %s game! 🚀", lang),
			Heading: "Month 1 Milestone",
			Paragraphs: []string{
				"Amazing! You've been at this for a month. That's longer than 80% of language learners stick with it.",
				"Now it's time to assess what's working and what needs adjustment. Ready to take it to the next level?",
			},
		}
	default:
		v = followUpView{
			Subject: fmt.Sprintf("Your %s journey continues... 💪", lang),
			Heading: "Progress Check-in",
			Paragraphs: []string{
				fmt.Sprintf("How's your %s learning going? I'd love to hear about your progress and any challenges you're facing.", lang),
			},
		}
	}

	html, text, err := render("followup.html.tmpl", "followup.txt.tmpl", v)
	if err != nil {
		return Template{}, err
	}
	return Template{Subject: v.Subject, HTML: html, Text: text}, nil
}
