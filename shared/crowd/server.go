package crowd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Server expõe uma Simulation via websocket. Cada conexão tem seu próprio
// lock de escrita; a leitura roda na goroutine do handler HTTP.
type Server struct {
	sim      *Simulation
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewServer cria o servidor sobre uma simulação.
func NewServer(sim *Simulation) *Server {
	return &Server{
		sim: sim,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Clients retorna o número de conexões ativas.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ServeHTTP faz o upgrade e atende a conexão até ela fechar.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Crowd] Erro no upgrade do WebSocket: %v", err)
		return
	}
	s.register(conn)
	defer s.unregister(conn)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Crowd] Recuperado de pânico na conexão %s: %v", conn.RemoteAddr(), r)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Crowd] Erro ao ler mensagem: %v", err)
			}
			return
		}

		var env Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Crowd] Erro ao desempacotar envelope: %v", err)
			continue
		}

		reply := s.handle(context.Background(), &env)
		if err := s.writeSafe(conn, reply.Marshal()); err != nil {
			log.Printf("[Crowd] Erro ao enviar para %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) register(conn *websocket.Conn) {
	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	s.mu.Unlock()
	log.Printf("[Crowd] Cliente registrado: %s", conn.RemoteAddr())
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	lock, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if !ok {
		return
	}
	lock.Lock()
	conn.Close()
	lock.Unlock()
	log.Printf("[Crowd] Cliente desregistrado: %s", conn.RemoteAddr())
}

// writeSafe garante que apenas uma goroutine escreva na conexão por vez.
func (s *Server) writeSafe(conn *websocket.Conn, data []byte) error {
	s.mu.Lock()
	lock, ok := s.clients[conn]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("cliente não encontrado")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

// handle processa um pedido e monta a resposta com o mesmo RequestID.
func (s *Server) handle(ctx context.Context, env *Envelope) *Envelope {
	reply := &Envelope{RequestID: env.RequestID}

	switch env.Type {
	case MsgPing:
		reply.Type = MsgPong
	case MsgSpawn:
		handles, err := s.sim.SpawnMany(ctx, env.Template, env.Positions)
		if err != nil {
			reply.Type = MsgError
			reply.Error = err.Error()
			return reply
		}
		log.Printf("[Crowd] Spawn de %d agentes com template %s", len(handles), env.Template)
		reply.Type = MsgSpawnReply
		reply.Handles = handles
	case MsgQuery:
		reply.Type = MsgQueryReply
		for _, h := range env.Handles {
			if a, ok := s.sim.Get(h); ok {
				reply.Handles = append(reply.Handles, h)
				reply.Positions = append(reply.Positions, a.Position)
			}
		}
	case MsgDespawn:
		reply.Type = MsgDespawnReply
		reply.Count = uint64(s.sim.Despawn(env.Handles...))
	default:
		reply.Type = MsgError
		reply.Error = fmt.Sprintf("tipo de mensagem desconhecido: %d", env.Type)
	}
	return reply
}
