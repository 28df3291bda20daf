// Package api is the HTTP client of the Mindeducation account API.
//
// # Endpoints
//
//	POST /user/login        {emailOrCpf, password}  -> {accessToken}
//	POST /user/signup       {email, name, cpf, password}
//	GET  /user/getUser      Authorization: <token>  -> {user}
//	PUT  /user/update/:id   Authorization: <token>, {email, name, cpf[, password]}
//
// # Credentials
//
// The client does not own the bearer token. Every request asks the injected
// TokenSource for the current value at dispatch time and sends it verbatim in
// the Authorization header; an empty value sends no header.
//
// # Errors
//
// Non-2xx responses become *RemoteError (status + server message). 401 and
// 403 also match ErrUnauthorized. Transport failures wrap ErrUnavailable.
package api
