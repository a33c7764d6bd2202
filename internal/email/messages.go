package email

import "fmt"

type CredentialsParams struct {
	To           string
	Username     string
	TempPassword string
	Name         string
	Role         string
	AppName      string
	LoginURL     string
	FromName     string
}

// Credentials builds the account-created mail sent to a freshly provisioned
// user or manager.
func Credentials(p CredentialsParams) Message {
	name := p.Name
	if name == "" {
		name = "là"
	}
	text := fmt.Sprintf(`Bonjour %s,

Votre compte a été créé avec succès avec le rôle %s.

Identifiants de connexion:
Email: %s
Nom d'utilisateur: %s
Mot de passe temporaire: %s

Veuillez vous inscrire ici: %s

Il vous sera demandé de changer votre mot de passe lors de votre première connexion.

Meilleures salutations,
%s`, name, p.Role, p.To, p.Username, p.TempPassword, p.LoginURL, p.FromName)

	html := fmt.Sprintf(`<p>Bonjour %s,</p>
<p>Votre compte a été créé avec succès avec le rôle <strong>%s</strong>.</p>
<p><strong>Identifiants de connexion:</strong></p>
<ul>
  <li>Email: %s</li>
  <li><strong>Nom d'utilisateur:</strong> %s</li>
  <li>Mot de passe temporaire: %s</li>
</ul>
<p>Veuillez vous inscrire ici: <a href="%s">%s</a></p>
<p>Il vous sera demandé de changer votre mot de passe lors de votre première connexion.</p>
<p>Meilleures salutations,<br>%s</p>`,
		name, p.Role, p.To, p.Username, p.TempPassword, p.LoginURL, p.LoginURL, p.FromName)

	return Message{
		To:      p.To,
		ToName:  p.Name,
		Subject: fmt.Sprintf("Les données d'identification de votre compte - %s", p.AppName),
		Text:    text,
		HTML:    html,
	}
}

type AssignmentParams struct {
	AssigneeEmail string
	AssignerEmail string
	AssignerName  string
	TaskTitle     string
	DevisDac      string
	ProjectName   string
	DueDate       string
}

// Assignment builds the pair of mails sent when a task is assigned: one to
// the assignee, one confirmation to the responsible manager.
func Assignment(p AssignmentParams) (assignee Message, assigner Message) {
	due := ""
	if p.DueDate != "" {
		due = "Date Fin: " + p.DueDate + "\n"
	}
	assignee = Message{
		To:      p.AssigneeEmail,
		Subject: "Nouvelle tâche: " + p.TaskTitle,
		Text: fmt.Sprintf(`Vous avez été affecté à une nouvelle tâche :

Dac: %s
Projet: %s
%sResponsable : %s

Veuillez consulter le tableau des tâches pour plus de détails.`,
			p.DevisDac, p.ProjectName, due, p.AssignerName),
	}
	assigner = Message{
		To:      p.AssignerEmail,
		ToName:  p.AssignerName,
		Subject: fmt.Sprintf("Confirmation: Vous êtes responsable de la tâche %q", p.TaskTitle),
		Text: fmt.Sprintf(`Bonjour %s,

Ceci est une confirmation que vous êtes responsable de la tâche suivante :

Tâche : %s
Dac: %s
Projet: %s
%s
Cette tâche a été assignée à : %s

Merci de suivre son avancement sur le tableau de gestion.`,
			p.AssignerName, p.TaskTitle, p.DevisDac, p.ProjectName, due, p.AssigneeEmail),
	}
	return assignee, assigner
}
