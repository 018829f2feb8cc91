// Package throttle fornece guards de transporte (net/http) para o serviço:
// limite de taxa por cliente (token bucket) e limite de requisições em voo.
//
// Estes guards protegem o processo como um todo e ficam na frente de qualquer
// regra de negócio — são distintos do sliding window por sessão do pacote
// presence/application, que vive no armazenamento e limita heartbeats de uma
// sessão específica.
//
// Fluxo:
//
//  1. Extrai a chave do cliente (header/XFF/RemoteAddr)
//  2. Consulta o bucket da chave; bloqueado responde 429 com Retry-After
//  3. MaxInFlight segura uma vaga do semáforo; sem vaga responde 503
package throttle
