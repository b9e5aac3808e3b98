package main

import (
	tezos "github.com/schjonhaug/tezos-ledger-app-go"
)

// maxChunk is the payload of every packet after the first.
const maxChunk = 230

type packet struct {
	packetType tezos.PacketType
	data       []byte
}

// packetQueue holds the packets of one upload in sending order.
type packetQueue struct {
	elements []packet
}

// newUploadQueue splits payload after an init packet carrying header. The
// last packet is flagged.
func newUploadQueue(header, payload []byte) *packetQueue {

	queue := &packetQueue{}

	if len(payload) == 0 {
		queue.Enqueue(packet{packetType: tezos.PacketInitAndLast, data: header})
		return queue
	}

	queue.Enqueue(packet{packetType: tezos.PacketInit, data: header})

	for len(payload) > 0 {

		size := min(len(payload), maxChunk)

		packetType := tezos.PacketAdd
		if size == len(payload) {
			packetType = tezos.PacketAddAndLast
		}

		queue.Enqueue(packet{packetType: packetType, data: payload[:size]})
		payload = payload[size:]

	}

	return queue

}

func (queue *packetQueue) Enqueue(element packet) {

	queue.elements = append(queue.elements, element)

}

func (queue *packetQueue) Dequeue() (packet, bool) {

	if len(queue.elements) == 0 {
		return packet{}, false
	}

	element := queue.elements[0]
	queue.elements = queue.elements[1:]

	return element, true

}

func (queue *packetQueue) Size() int {

	return len(queue.elements)

}

func (queue *packetQueue) IsEmpty() bool {

	return len(queue.elements) == 0

}
