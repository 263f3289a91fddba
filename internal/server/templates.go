package server

import "html/template"

// Page templates are kept inline: rendering is a thin collaborator and the
// pages are a single form each.

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Clients</title>
<style>
body { font-family:'Segoe UI', Tahoma, Geneva, Verdana; max-width:600px; margin:40px auto; color:#333; }
li { margin:8px 0; }
</style>
</head>
<body>
<h1>Clients</h1>
<ul>
{{range .}}<li><a href="/c/{{.Slug}}">{{.Title}}</a></li>
{{else}}<li>No clients yet.</li>
{{end}}</ul>
</body>
</html>
`))

var landingTmpl = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family:'Segoe UI', Tahoma, Geneva, Verdana; display:flex; justify-content:center; align-items:center; min-height:100vh; margin:0; background:linear-gradient(135deg,#e0f7fa 0%,#80deea 100%); }
.container { background:#fff; padding:40px; border-radius:12px; box-shadow:0 6px 12px rgba(0,0,0,0.15); max-width:500px; width:100%; text-align:center; }
h1 { color:{{.PrimaryColor}}; }
p { color:#555; }
input { width:100%; padding:12px; margin:15px 0; border-radius:6px; border:1px solid #ccc; }
button { padding:14px 28px; font-size:16px; background:{{.PrimaryColor}}; color:white; border:none; border-radius:6px; cursor:pointer; }
.message { margin-top:15px; font-weight:bold; color:#333; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>

<input type="text" id="phone" placeholder="Enter phone number" pattern="[0-9]{10,20}">
<button onclick="submitLead()">Continue</button>

<div class="message" id="msg"></div>
</div>

<script>
function submitLead() {
  const phone = document.getElementById("phone").value;
  const msg = document.getElementById("msg");

  if (!phone) { msg.textContent = "Please enter your phone number."; return; }

  fetch("/api/lead", {
    method:"POST",
    headers:{ "Content-Type":"application/json" },
    body: JSON.stringify({ phone:phone, slug:"{{.Slug}}" })
  })
  .then(res => res.json())
  .then(data => { msg.textContent = "Thank you! We will contact you shortly."; })
  .catch(() => { msg.textContent = "Something went wrong. Try again."; });
}
</script>
</body>
</html>
`))

var confirmTmpl = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family:'Segoe UI', Tahoma, Geneva, Verdana; display:flex; justify-content:center; align-items:center; min-height:100vh; margin:0; background:linear-gradient(135deg,#e0f7fa 0%,#80deea 100%); }
.container { background:#fff; padding:40px; border-radius:12px; box-shadow:0 6px 12px rgba(0,0,0,0.15); max-width:500px; width:100%; text-align:center; }
h1 { color:{{.PrimaryColor}}; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<p>Thank you! We will contact you shortly.</p>
</div>
</body>
</html>
`))
