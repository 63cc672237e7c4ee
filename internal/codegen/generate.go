package codegen

import "strings"

// Request describes the endpoint an example is synthesized for. BodySummary
// is a short human hint at the request body shape (a schema name or a
// property list); an empty value means the operation takes no JSON body.
type Request struct {
	Method      string
	Path        string
	BaseURL     string
	NeedsAuth   bool
	BodySummary string
}

func (r Request) url() string {
	return strings.TrimRight(r.BaseURL, "/") + r.Path
}

func (r Request) hasBody() bool {
	switch strings.ToUpper(r.Method) {
	case "POST", "PUT", "PATCH":
		return r.BodySummary != ""
	default:
		return false
	}
}

// Generate synthesizes a code example for the given stack. Unknown stacks
// fall back to the vanilla template; callers that need strict validation run
// ParseStack first. The output always embeds the full request URL and the
// upper-cased method, includes an Authorization header iff NeedsAuth, and a
// body serialization step iff the operation takes a body.
func Generate(stack Stack, req Request) string {
	switch stack {
	case StackReactFetch:
		return reactFetchExample(req)
	case StackReactAxios:
		return reactAxiosExample(req)
	case StackVue3:
		return vue3Example(req)
	case StackNextJS:
		return nextJSExample(req)
	case StackAngular:
		return angularExample(req)
	case StackSvelte:
		return svelteExample(req)
	case StackVanilla:
		return vanillaExample(req)
	case StackReactNative:
		return reactNativeExample(req)
	case StackFlutter:
		return flutterExample(req)
	case StackSwiftIOS:
		return swiftIOSExample(req)
	case StackKotlinAndroid:
		return kotlinAndroidExample(req)
	default:
		return vanillaExample(req)
	}
}

func vanillaExample(req Request) string {
	var headers []string
	if req.NeedsAuth {
		headers = append(headers, `    "Authorization": "Bearer " + token,`)
	}
	if req.hasBody() {
		headers = append(headers, `    "Content-Type": "application/json",`)
	}
	mid := ""
	if len(headers) > 0 {
		mid = "\n  headers: {\n" + strings.Join(headers, "\n") + "\n  },"
		if req.hasBody() {
			mid += "\n  body: JSON.stringify({ /* see request body schema */ }),"
		}
	}
	return "// Store your JWT after login\n" +
		"const token = \"YOUR_JWT_TOKEN\";\n" +
		"const url = \"" + req.url() + "\";\n\n" +
		"fetch(url, {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\"," + mid + "\n" +
		"})\n" +
		"  .then((res) => res.json())\n" +
		"  .then((data) => console.log(data))\n" +
		"  .catch((err) => console.error(err));"
}

func reactFetchExample(req Request) string {
	authHeaders := "\n      headers,"
	if req.NeedsAuth {
		authHeaders = "\n      headers: { ...headers, \"Authorization\": `Bearer ${token}` },"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n      body: JSON.stringify(payload),"
	}
	return "// In your component: get token from auth context or state\n" +
		"const token = \"YOUR_JWT\"; // e.g. from login response\n" +
		"const headers = { \"Content-Type\": \"application/json\" };\n\n" +
		"const response = await fetch(\"" + req.url() + "\", {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\"," + authHeaders + bodyLine + "\n" +
		"});\n" +
		"const data = await response.json();\n" +
		"if (!response.ok) throw new Error(data?.message || \"Request failed\");"
}

func reactAxiosExample(req Request) string {
	auth := ""
	if req.NeedsAuth {
		auth = "\n  headers: { Authorization: `Bearer ${token}` },"
	}
	bodyArg := ""
	if req.hasBody() {
		bodyArg = "\n  data: payload,"
	}
	return "import axios from \"axios\";\n\n" +
		"const token = \"YOUR_JWT\";\n" +
		"const api = axios.create({\n" +
		"  baseURL: \"" + strings.TrimRight(req.BaseURL, "/") + "\"," + auth + "\n" +
		"});\n\n" +
		"const { data } = await api." + strings.ToLower(req.Method) + "(\"" + req.Path + "\"" + bodyArg + ");"
}

func vue3Example(req Request) string {
	authLine := ""
	if req.NeedsAuth {
		authLine = "\n      \"Authorization\": `Bearer ${token}`,"
	}
	bodyArg := ""
	if req.hasBody() {
		bodyArg = ",\n    body: JSON.stringify(payload)"
	}
	return "// In setup(): token from pinia/store or inject\n" +
		"const token = ref(\"YOUR_JWT\");\n" +
		"const url = \"" + req.url() + "\";\n\n" +
		"const response = await fetch(url, {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\",\n" +
		"  headers: {\n" +
		"    \"Content-Type\": \"application/json\"," + authLine + "\n" +
		"  }" + bodyArg + "\n" +
		"});\n" +
		"const data = await response.json();"
}

func nextJSExample(req Request) string {
	authHeaders := ""
	if req.NeedsAuth {
		authHeaders = "\n    Authorization: `Bearer ${token}`,"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n  body: JSON.stringify(payload),"
	}
	return "// Server Action or route handler: pass token from session/cookies\n" +
		"const token = \"YOUR_JWT\";\n" +
		"const res = await fetch(\"" + req.url() + "\", {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\",\n" +
		"  headers: {\n" +
		"    \"Content-Type\": \"application/json\"," + authHeaders + "\n" +
		"  }," + bodyLine + "\n" +
		"});\n" +
		"const data = await res.json();"
}

func angularExample(req Request) string {
	authHeaders := ""
	if req.NeedsAuth {
		authHeaders = "\n    \"Authorization\": `Bearer ${this.authService.getToken()}`,"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n    body: payload,"
	}
	return "// In your service: inject HttpClient and AuthService\n" +
		"const url = \"" + req.url() + "\";\n" +
		"this.http.request<YourResponse>({\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\",\n" +
		"  url,\n" +
		"  headers: { \"Content-Type\": \"application/json\"" + authHeaders + " }," + bodyLine + "\n" +
		"}).subscribe({ next: (data) => ..., error: (err) => ... });"
}

func svelteExample(req Request) string {
	authLine := ""
	if req.NeedsAuth {
		authLine = "\n      \"Authorization\": `Bearer ${token}`,"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = ",\n    body: JSON.stringify(payload)"
	}
	return "// In your component: token from store or prop\n" +
		"let token = \"YOUR_JWT\";\n" +
		"const url = \"" + req.url() + "\";\n" +
		"const res = await fetch(url, {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\",\n" +
		"  headers: {\n" +
		"    \"Content-Type\": \"application/json\"," + authLine + "\n" +
		"  }" + bodyLine + "\n" +
		"});\n" +
		"const data = await res.json();"
}

func reactNativeExample(req Request) string {
	authHeaders := "\n      headers,"
	if req.NeedsAuth {
		authHeaders = "\n      headers: { ...headers, Authorization: `Bearer ${token}` },"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n      body: JSON.stringify(payload),"
	}
	return "// Token from AsyncStorage or auth context\n" +
		"const token = \"YOUR_JWT\";\n" +
		"const headers = { \"Content-Type\": \"application/json\" };\n\n" +
		"const response = await fetch(\"" + req.url() + "\", {\n" +
		"  method: \"" + strings.ToUpper(req.Method) + "\"," + authHeaders + bodyLine + "\n" +
		"});\n" +
		"const data = await response.json();"
}

func flutterExample(req Request) string {
	authLine := ""
	if req.NeedsAuth {
		authLine = "\n  'Authorization': 'Bearer $token',"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n  body: jsonEncode(payload),"
	}
	return "// token from your auth state / storage\n" +
		"final token = 'YOUR_JWT';\n" +
		"final url = Uri.parse('" + req.url() + "');\n" +
		"final response = await http.request(\n" +
		"  url,\n  method: '" + strings.ToUpper(req.Method) + "',\n" +
		"  headers: {\n" +
		"    'Content-Type': 'application/json'," + authLine + "\n" +
		"  }," + bodyLine + "\n" +
		");\n" +
		"final data = jsonDecode(response.body);"
}

func swiftIOSExample(req Request) string {
	authLine := ""
	if req.NeedsAuth {
		authLine = "\n    request.setValue(\"Bearer \\(token)\", forHTTPHeaderField: \"Authorization\")"
	}
	bodyLine := ""
	if req.hasBody() {
		bodyLine = "\n    request.httpBody = try? JSONSerialization.data(withJSONObject: payload)"
	}
	return "// token from Keychain or auth manager\n" +
		"let token = \"YOUR_JWT\"\n" +
		"let url = URL(string: \"" + req.url() + "\")!\n" +
		"var request = URLRequest(url: url)\n" +
		"request.httpMethod = \"" + strings.ToUpper(req.Method) + "\"\n" +
		"request.setValue(\"application/json\", forHTTPHeaderField: \"Content-Type\")" + authLine + bodyLine + "\n" +
		"let (data, _) = try await URLSession.shared.data(for: request)\n" +
		"let decoded = try JSONDecoder().decode(YourModel.self, from: data)"
}

func kotlinAndroidExample(req Request) string {
	bodyPart := "\n    .method(\"" + strings.ToUpper(req.Method) + "\", null)"
	if req.hasBody() {
		bodyPart = "\n    .post(payload.toString().toRequestBody(\"application/json\".toMediaType()))"
	}
	authLine := ""
	if req.NeedsAuth {
		authLine = "\n    .addHeader(\"Authorization\", \"Bearer $token\")"
	}
	return "// token from SharedPreferences or auth repository\n" +
		"val token = \"YOUR_JWT\"\n" +
		"val request = Request.Builder().url(\"" + req.url() + "\")" + authLine + bodyPart + "\n" +
		"    .build()\n" +
		"val response = client.newCall(request).execute()\n" +
		"val body = response.body?.string()"
}
