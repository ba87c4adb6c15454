package crowd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"LandmarkVision/shared/landmark"

	"github.com/gorilla/websocket"
)

var (
	// ErrNotConnected indica uso do cliente sem conexão ativa.
	ErrNotConnected = errors.New("cliente de multidão não conectado")
	// ErrRemote embrulha erros devolvidos pelo servidor.
	ErrRemote = errors.New("erro do servidor de multidão")
)

// Client fala com o Server por websocket. Pedidos são correlacionados com
// as respostas pelo RequestID, então várias goroutines podem usar o cliente.
type Client struct {
	url        string
	MaxRetries int
	RetryDelay time.Duration

	conn      *websocket.Conn
	writeMu   sync.Mutex
	mu        sync.RWMutex
	connected bool
	nextID    uint64
	pending   map[uint64]chan *Envelope
	closed    chan struct{}
}

// NewClient cria um cliente para a URL ws://host/ws.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		MaxRetries: 10,
		RetryDelay: 2 * time.Second,
		pending:    make(map[uint64]chan *Envelope),
	}
}

// Connect tenta conectar algumas vezes antes de desistir.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var (
		conn *websocket.Conn
		err  error
	)
	retries := max(c.MaxRetries, 1)
	for i := 0; i < retries; i++ {
		log.Printf("[Crowd] Tentativa de conexão %d/%d em %s...", i+1, retries, c.url)
		conn, _, err = dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			break
		}
		if i == retries-1 {
			break
		}
		log.Printf("[Crowd] Servidor ainda não está pronto: %v. Aguardando...", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.RetryDelay):
		}
	}
	if err != nil {
		log.Printf("[Crowd] ERRO CRÍTICO após %d tentativas: %v", retries, err)
		return fmt.Errorf("conectar em %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.closed = make(chan struct{})
	c.mu.Unlock()

	go c.readLoop(conn, c.closed)
	return nil
}

// IsConnected informa se a conexão está ativa.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close encerra a conexão.
func (c *Client) Close() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *Client) readLoop(conn *websocket.Conn, closed chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Crowd] Recuperado de pânico no readLoop: %v", r)
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(closed)
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("[Crowd] Conexão perdida: %v", err)
			}
			return
		}

		env := &Envelope{}
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Crowd] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[env.RequestID]
		delete(c.pending, env.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- env
		}
	}
}

// request envia um envelope e espera a resposta ou o fim do contexto.
func (c *Client) request(ctx context.Context, env *Envelope) (*Envelope, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.nextID++
	env.RequestID = c.nextID
	ch := make(chan *Envelope, 1)
	c.pending[env.RequestID] = ch
	conn, closed := c.conn, c.closed
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, env.RequestID)
		c.mu.Unlock()
	}

	c.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	} else {
		conn.SetWriteDeadline(time.Time{})
	}
	err := conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
	c.writeMu.Unlock()
	if err != nil {
		forget()
		return nil, fmt.Errorf("enviar pedido: %w", err)
	}

	select {
	case reply := <-ch:
		if reply.Type == MsgError {
			return nil, fmt.Errorf("%w: %s", ErrRemote, reply.Error)
		}
		return reply, nil
	case <-closed:
		forget()
		return nil, ErrNotConnected
	case <-ctx.Done():
		forget()
		return nil, ctx.Err()
	}
}

// Ping verifica se o servidor responde.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.request(ctx, &Envelope{Type: MsgPing})
	return err
}

// SpawnMany implementa spawn.Spawner sobre o websocket.
func (c *Client) SpawnMany(ctx context.Context, template string, positions []landmark.Vec3) ([]landmark.Handle, error) {
	reply, err := c.request(ctx, &Envelope{Type: MsgSpawn, Template: template, Positions: positions})
	if err != nil {
		return nil, err
	}
	return reply.Handles, nil
}

// Despawn remove agentes remotos e retorna quantos existiam.
func (c *Client) Despawn(ctx context.Context, handles []landmark.Handle) (int, error) {
	reply, err := c.request(ctx, &Envelope{Type: MsgDespawn, Handles: handles})
	if err != nil {
		return 0, err
	}
	return int(reply.Count), nil
}

// Snapshot busca as posições atuais dos handles. Handles que não existem
// mais ficam fora do snapshot.
func (c *Client) Snapshot(ctx context.Context, handles []landmark.Handle) (*Snapshot, error) {
	reply, err := c.request(ctx, &Envelope{Type: MsgQuery, Handles: handles})
	if err != nil {
		return nil, err
	}
	if len(reply.Handles) != len(reply.Positions) {
		return nil, fmt.Errorf("resposta de consulta desalinhada: %d handles, %d posições",
			len(reply.Handles), len(reply.Positions))
	}
	snap := &Snapshot{positions: make(map[landmark.Handle]landmark.Vec3, len(reply.Handles))}
	for i, h := range reply.Handles {
		snap.positions[h] = reply.Positions[i]
	}
	return snap, nil
}

// Snapshot é uma foto das posições remotas que implementa landmark.EntityResolver.
type Snapshot struct {
	positions map[landmark.Handle]landmark.Vec3
}

// Len retorna quantos agentes estão na foto.
func (s *Snapshot) Len() int {
	return len(s.positions)
}

// IsValid implementa landmark.EntityResolver.
func (s *Snapshot) IsValid(ref landmark.EntityRef) bool {
	_, ok := s.positions[landmark.Handle(ref.ID)]
	return ok
}

// PositionOf implementa landmark.EntityResolver.
func (s *Snapshot) PositionOf(ref landmark.EntityRef) landmark.Vec3 {
	return s.positions[landmark.Handle(ref.ID)]
}
