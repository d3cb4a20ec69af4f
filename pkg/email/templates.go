package email

import "fmt"

const layout = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse;">
        <tr>
            <td align="center" style="padding: 40px 0;">
                <table role="presentation" style="width: 600px; border-collapse: collapse; background-color: #ffffff; border-radius: 8px;">
                    <tr>
                        <td style="padding: 40px 30px; text-align: center; background-color: #E11D48; border-radius: 8px 8px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 28px;">%s</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            %s
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 20px 30px; text-align: center; background-color: #f9fafb; border-radius: 0 0 8px 8px;">
                            <p style="margin: 0; font-size: 12px; color: #999999;">ViralCut Pro &middot; This is an automated message, please do not reply.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`

func button(url, label string) string {
	return fmt.Sprintf(`
                            <table role="presentation" style="margin: 30px auto;">
                                <tr>
                                    <td align="center">
                                        <a href="%s" style="display: inline-block; padding: 14px 40px; background-color: #E11D48; color: #ffffff; text-decoration: none; border-radius: 6px; font-size: 16px; font-weight: bold;">%s</a>
                                    </td>
                                </tr>
                            </table>`, url, label)
}

func paragraph(text string) string {
	return fmt.Sprintf(`<p style="margin: 0 0 20px; font-size: 16px; line-height: 24px; color: #333333;">%s</p>`, text)
}

func fine(text string) string {
	return fmt.Sprintf(`<p style="margin: 20px 0 0; font-size: 14px; line-height: 20px; color: #666666;">%s</p>`, text)
}

// VerificationEmailTemplate generates HTML for email verification.
func VerificationEmailTemplate(name, verificationURL string) string {
	content := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph("Thank you for registering! Please verify your email address by clicking the button below:") +
		button(verificationURL, "Verify Email") +
		fine("If you didn't create an account, you can safely ignore this email.") +
		fine("This link will expire in 24 hours.")
	return fmt.Sprintf(layout, "Verify Your Email", "Verify Your Email", content)
}

// PasswordResetEmailTemplate generates HTML for password reset.
func PasswordResetEmailTemplate(name, resetURL string) string {
	content := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph("We received a request to reset your password. Click the button below to choose a new one:") +
		button(resetURL, "Reset Password") +
		fine("If you didn't request a password reset, you can safely ignore this email. Your password will not change.") +
		fine("This link will expire in 1 hour.")
	return fmt.Sprintf(layout, "Reset Your Password", "Reset Your Password", content)
}

// WelcomeEmailTemplate generates HTML for the post-verification welcome.
func WelcomeEmailTemplate(name, frontendURL string) string {
	content := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph("Your email is verified and your account is ready. Upload your first video and start clipping!") +
		button(frontendURL+"/dashboard", "Go to Dashboard")
	return fmt.Sprintf(layout, "Welcome to ViralCut Pro", "Welcome!", content)
}

// PasswordChangedEmailTemplate generates HTML for the password change notice.
func PasswordChangedEmailTemplate(name string) string {
	content := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph("Your password was just changed and all of your sessions were signed out.") +
		fine("If this wasn't you, reset your password immediately and contact support.")
	return fmt.Sprintf(layout, "Your Password Was Changed", "Password Changed", content)
}

// ProcessingNotificationTemplate generates HTML for a video pipeline update.
func ProcessingNotificationTemplate(name, videoTitle, status, frontendURL string) string {
	content := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph(fmt.Sprintf("Your video <strong>%s</strong> is now <strong>%s</strong>.", videoTitle, status)) +
		button(frontendURL+"/videos", "View Your Videos")
	return fmt.Sprintf(layout, "Video Processing Update", "Processing Update", content)
}
