package handlers

import (
	"io"
	"net/http"
)

const homePage = `<h2>✅ Simple Chatbot Platform (demo)</h2>
<p>Seeded user: <b>demo@example.com</b> / password <b>demo123</b></p>
<ul>
  <li>Register: POST /auth/register { "email","password","name" }</li>
  <li>Login: POST /auth/login { "email","password" } &rarr; returns token</li>
  <li>Logout: POST /auth/logout (Authorization header)</li>
  <li>List Projects: GET /projects (Authorization: Bearer &lt;token&gt;)</li>
  <li>Create Project: POST /projects (Authorization header)</li>
  <li>Add Prompt: POST /projects/{projectId}/prompts (body {"prompt":"..."})</li>
  <li>Chat (GET): GET /chat?msg=hello&amp;project={id} (Authorization header)</li>
  <li>Chat (POST): POST /chat?project={id} with text/plain body</li>
  <li>Chat (WS): GET /chat/ws?project={id} (Authorization header)</li>
</ul>
`

// Home serves a minimal HTML cheat sheet for poking at the API.
func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, homePage)
}
