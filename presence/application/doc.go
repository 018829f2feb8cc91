// Package application contém os casos de uso do serviço de presença.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Heartbeat valida, aplica rate limit e grava o registro;
// Service.Aggregate varre o keyspace e devolve a projeção {count, moods}.
package application
