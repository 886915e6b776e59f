package mail

import "html/template"

// Email bodies are rendered with html/template so every user-supplied
// field is escaped before it reaches the markup.

var adminNotificationTmpl = template.Must(template.New("admin_notification").Parse(`
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #1a1a1a; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #f0f0f0; padding: 24px 20px; text-align: center; border-bottom: 1px solid #e0e0e0;">
    <h1 style="margin: 0; font-size: 22px;">ZETOUN LABS</h1>
    <p style="color: #444; font-size: 14px; margin: 6px 0 0;">Nouvelle demande client – Formulaire de contact</p>
  </div>
  <div style="padding: 28px 24px;">
    <p>Une nouvelle demande a été soumise via le formulaire de contact du site. Merci de traiter cette demande sous 48 h ouvrées.</p>
    <table style="width: 100%; border-collapse: collapse; font-size: 15px;">
      <tr><td style="padding: 10px 8px 10px 0; font-weight: 600; width: 32%;">Nom :</td><td style="padding: 10px 0; color: #555;">{{.Name}}</td></tr>
      <tr><td style="padding: 10px 8px 10px 0; font-weight: 600;">E-mail :</td><td style="padding: 10px 0; color: #555;"><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      <tr><td style="padding: 10px 8px 10px 0; font-weight: 600;">Sujet :</td><td style="padding: 10px 0; color: #555;">{{.Subject}}</td></tr>
    </table>
    <div style="background-color: #f9f9f9; border-left: 4px solid #1a1a1a; padding: 18px; margin-top: 20px;">
      <h3 style="margin: 0 0 10px; font-size: 16px;">Message du client</h3>
      <p style="white-space: pre-wrap; margin: 0; color: #555;">{{.Message}}</p>
    </div>
  </div>
  <div style="background-color: #f5f5f5; color: #666; padding: 16px; text-align: center; font-size: 12px;">
    Notification automatique – Zetoun Labs. Répondre au client à l'adresse indiquée ci-dessus.
  </div>
</div>
`))

var clientConfirmationTmpl = template.Must(template.New("client_confirmation").Parse(`
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #000; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #f0f0f0; padding: 28px 25px; text-align: center; border-bottom: 1px solid #e0e0e0;">
    <h1 style="margin: 0; font-size: 26px;">ZETOUN LABS</h1>
    <p style="color: #444; margin: 8px 0 0; font-size: 15px;">L'expertise au service de votre avenir numérique</p>
  </div>
  <div style="padding: 32px 28px;">
    <p>Bonjour <strong>{{.Name}}</strong>,</p>
    <p>Merci d'avoir pris contact avec nous. Nous avons bien reçu votre demande et nous vous en remercions.</p>
    <div style="background-color: #f9f9f9; border-left: 4px solid #1a1a1a; padding: 16px 18px; margin: 20px 0;">
      <p style="margin: 0; font-size: 14px; color: #555;">Rappel de votre demande</p>
      <p style="margin: 6px 0 0; font-weight: 600;">« {{.Subject}} »</p>
    </div>
    <p>Un membre de notre équipe étudie votre requête et vous répondra personnellement sous <strong>48 heures ouvrables</strong>.</p>
    <p><a href="{{.FrontendURL}}/add/calendar-form" style="display: inline-block; background-color: #1a1a1a; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 600;">Voir le calendrier des formations</a></p>
    <p style="font-size: 15px; color: #555;">Cordialement,<br/><strong>L'équipe Zetoun Labs</strong></p>
  </div>
  <div style="background-color: #f5f5f5; color: #666; padding: 18px; text-align: center; font-size: 12px;">
    Cet e-mail a été envoyé automatiquement suite à votre demande sur notre site.
  </div>
</div>
`))

var invoiceConfirmationTmpl = template.Must(template.New("invoice_confirmation").Parse(`
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #000; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #f0f0f0; padding: 28px 25px; text-align: center; border-bottom: 1px solid #e0e0e0;">
    <h1 style="margin: 0; font-size: 26px;">ZETOUN LABS</h1>
    <p style="color: #444; margin: 8px 0 0; font-size: 15px;">Confirmation de votre facture</p>
  </div>
  <div style="padding: 32px 28px;">
    <p>Bonjour <strong>{{.ClientName}}</strong>,</p>
    <p>Merci pour votre commande. Votre facture a bien été enregistrée. Conservez cet e-mail pour vos dossiers.</p>
    <h3 style="font-size: 17px; margin: 24px 0 12px;">Facture N° {{.Number}}</h3>
    <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
      <thead>
        <tr style="background-color: #f5f5f5;">
          <th style="padding: 10px 8px; text-align: left; border-bottom: 2px solid #1a1a1a;">#</th>
          <th style="padding: 10px 8px; text-align: left; border-bottom: 2px solid #1a1a1a;">Formation</th>
          <th style="padding: 10px 8px; text-align: center; border-bottom: 2px solid #1a1a1a;">Qté</th>
          <th style="padding: 10px 8px; text-align: right; border-bottom: 2px solid #1a1a1a;">Prix unit.</th>
          <th style="padding: 10px 8px; text-align: right; border-bottom: 2px solid #1a1a1a;">Total</th>
        </tr>
      </thead>
      <tbody>
        {{range .Lines}}
        <tr>
          <td style="padding: 10px 8px; border-bottom: 1px solid #eee;">{{.Index}}</td>
          <td style="padding: 10px 8px; border-bottom: 1px solid #eee;">{{.Title}}</td>
          <td style="padding: 10px 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
          <td style="padding: 10px 8px; border-bottom: 1px solid #eee; text-align: right;">{{.UnitPrice}} $</td>
          <td style="padding: 10px 8px; border-bottom: 1px solid #eee; text-align: right;">{{.LineTotal}} $</td>
        </tr>
        {{end}}
        <tr>
          <td colspan="4" style="padding: 12px 8px; text-align: right; font-weight: 700; border-top: 2px solid #1a1a1a;">Total TTC</td>
          <td style="padding: 12px 8px; text-align: right; font-weight: 700; border-top: 2px solid #1a1a1a;">{{.Total}} $</td>
        </tr>
      </tbody>
    </table>
    <p style="margin-top: 24px;"><a href="{{.FrontendURL}}/add/calendar-form" style="display: inline-block; background-color: #1a1a1a; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 600;">Accéder au calendrier</a></p>
    <p style="font-size: 15px; color: #555;">Cordialement,<br/><strong>L'équipe Zetoun Labs</strong></p>
  </div>
  <div style="background-color: #f5f5f5; color: #666; padding: 18px; text-align: center; font-size: 12px;">
    Cet e-mail confirme l'enregistrement de votre facture. Conservez-le pour vos archives.
  </div>
</div>
`))
